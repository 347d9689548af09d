package util

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// charReplacementMap normalizes typographic punctuation that word processors
// and mobile keyboards insert, so pattern matching sees plain ASCII forms.
var charReplacementMap = map[string]string{
	"\u2018": "'", "\u2019": "'", "\u201C": "\"", "\u201D": "\"",
	"\u2013": "-", "\u2014": "--", "\u2026": "...", "\u00a0": " ",
	"\u0091": "'", "\u0092": "'", "\u0093": "\"", "\u0094": "\"",
}

// IsLikelyBinary reports whether the data looks like binary content rather
// than text, by checking the first 512 bytes for a NUL byte.
func IsLikelyBinary(data []byte) bool {
	if len(data) > 512 {
		data = data[:512]
	}
	return bytes.Contains(data, []byte{0})
}

// SanitizeUTF8 strips a UTF-8 BOM and repairs invalid byte sequences.
// It does not touch valid characters, so structured formats like JSON pass
// through unchanged.
func SanitizeUTF8(data []byte, src string) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if !utf8.Valid(data) {
		log.Warnf("%s contains invalid UTF-8, replacing invalid sequences", src)
		data = bytes.ToValidUTF8(data, []byte(string(utf8.RuneError)))
	}

	str := string(data)
	if !utf8.ValidString(str) {
		return "", fmt.Errorf("invalid UTF-8 after repair: %s", src)
	}
	return str, nil
}

// NormalizePunctuation replaces typographic punctuation with plain ASCII
// equivalents. Apply it to free text only, never to serialized formats
// where quote characters are syntax.
func NormalizePunctuation(s string) string {
	for bad, good := range charReplacementMap {
		s = strings.ReplaceAll(s, bad, good)
	}
	return s
}

// CleanText prepares raw free-text bytes (a file body or stdin) for
// moderation: SanitizeUTF8 followed by NormalizePunctuation.
func CleanText(data []byte, src string) (string, error) {
	str, err := SanitizeUTF8(data, src)
	if err != nil {
		return "", err
	}
	return NormalizePunctuation(str), nil
}

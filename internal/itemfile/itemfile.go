package itemfile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"modgate/internal/models"
	"modgate/internal/util"
)

// maxLineBytes bounds a single JSONL line; moderation items are short text,
// so anything larger is almost certainly a mistaken input file.
const maxLineBytes = 64 * 1024

/*
ReadItems parses a JSONL file of moderation items, one JSON object per line:

	{"type": "chat", "text": "see you after school"}

Blank lines and lines starting with # are skipped. Items are validated for
type before return; a single bad line fails the whole read so partial
batches are never submitted.
*/
func ReadItems(path string) ([]models.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items file %s: %w", path, err)
	}
	if util.IsLikelyBinary(data) {
		return nil, fmt.Errorf("%s looks like a binary file, expected JSONL text", path)
	}
	// Repair encoding only; punctuation normalization happens per item after
	// decoding, since quote characters are syntax at the JSONL level.
	sanitized, err := util.SanitizeUTF8(data, path)
	if err != nil {
		return nil, err
	}
	return parseItems(strings.NewReader(sanitized), path)
}

func parseItems(r io.Reader, src string) ([]models.Item, error) {
	var items []models.Item
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var item models.Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			return nil, fmt.Errorf("%s:%d: invalid item JSON: %w", src, lineNo, err)
		}
		if !item.Type.Valid() {
			return nil, fmt.Errorf("%s:%d: invalid item type %q", src, lineNo, item.Type)
		}
		item.Text = util.NormalizePunctuation(item.Text)
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", src, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s contains no items", src)
	}
	return items, nil
}

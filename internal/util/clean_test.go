package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeUTF8(t *testing.T) {
	t.Run("strips BOM", func(t *testing.T) {
		out, err := SanitizeUTF8([]byte("\xEF\xBB\xBFhello"), "test")
		require.NoError(t, err)
		assert.Equal(t, "hello", out)
	})

	t.Run("repairs invalid sequences", func(t *testing.T) {
		out, err := SanitizeUTF8([]byte{'h', 'i', 0xFF}, "test")
		require.NoError(t, err)
		assert.Equal(t, "hi�", out)
	})

	t.Run("leaves valid typographic characters alone", func(t *testing.T) {
		in := "she said “hi” — twice…"
		out, err := SanitizeUTF8([]byte(in), "test")
		require.NoError(t, err)
		assert.Equal(t, in, out, "encoding repair must not rewrite valid characters")
	})
}

func TestNormalizePunctuation(t *testing.T) {
	in := "she said “hi” — don’t wait… \u0091ok\u0092"
	assert.Equal(t, `she said "hi" -- don't wait... 'ok'`, NormalizePunctuation(in))
}

func TestCleanText(t *testing.T) {
	out, err := CleanText([]byte("\xEF\xBB\xBF“hello”"), "test")
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, out)
}

func TestIsLikelyBinary(t *testing.T) {
	assert.True(t, IsLikelyBinary([]byte{'P', 'N', 'G', 0x00}))
	assert.False(t, IsLikelyBinary([]byte("plain text")))
}

package itemfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modgate/internal/models"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadItems(t *testing.T) {
	content := `{"type":"chat","text":"see you after school"}
# a comment line

{"type":"video_title","text":"my ` + "“" + `epic` + "”" + ` win"}
`
	path := writeFile(t, "items.jsonl", []byte(content))

	items, err := ReadItems(path)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.Item{Type: models.ItemTypeChat, Text: "see you after school"}, items[0])
	assert.Equal(t, models.ItemTypeVideoTitle, items[1].Type)
	assert.Equal(t, `my "epic" win`, items[1].Text, "smart quotes are normalized")
}

func TestReadItems_StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"type":"chat","text":"hi"}`)...)
	path := writeFile(t, "bom.jsonl", data)

	items, err := ReadItems(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "hi", items[0].Text)
}

func TestReadItems_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantMsg string
	}{
		{"invalid json line", []byte(`{"type":"chat"` + "\n"), "invalid item JSON"},
		{"invalid type", []byte(`{"type":"livestream","text":"hi"}` + "\n"), "invalid item type"},
		{"empty file", []byte("\n# just a comment\n"), "contains no items"},
		{"binary file", append([]byte("PNG"), 0x00, 0x01), "binary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.jsonl", tt.data)
			_, err := ReadItems(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestReadItems_MissingFile(t *testing.T) {
	_, err := ReadItems(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.Error(t, err)
}

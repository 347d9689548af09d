package clix

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"modgate/internal/models"
	"modgate/internal/util"
)

// ParseItemType reads and validates the --type flag.
func ParseItemType(flags *pflag.FlagSet) (models.ItemType, error) {
	raw, _ := flags.GetString("type")
	itemType := models.ItemType(raw)
	if !itemType.Valid() {
		return "", fmt.Errorf("invalid --type %q (expected chat, video_title, video_caption, or video_frame_auto)", raw)
	}
	return itemType, nil
}

// ReadTextArg returns the text to moderate: the first positional argument
// when given, otherwise everything on stdin. Stdin input is cleaned the same
// way file input is.
func ReadTextArg(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return util.CleanText(data, "stdin")
}

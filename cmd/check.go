package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"modgate/internal/clix"
	"modgate/internal/models"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Moderate a single piece of text from the command line",
	Long:  `Moderate a single piece of text. Pass the text as an argument, or pipe it on stdin (use "-" or no argument).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()

		itemType, err := clix.ParseItemType(cmd.Flags())
		if err != nil {
			return err
		}
		text, err := clix.ReadTextArg(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		item := models.Item{Type: itemType, Text: text}
		verdict, err := appInstance.ModerationService.Moderate(cmd.Context(), item)
		if err != nil {
			return fmt.Errorf("moderation failed: %w", err)
		}

		fmt.Printf("Verdict:    %s\n", colorVerdict(verdict.Verdict))
		fmt.Printf("Tags:       %v\n", verdict.PolicyTags)
		fmt.Printf("Rationale:  %s\n", verdict.Rationale)
		if verdict.SafeSuggestion != nil {
			fmt.Printf("Suggestion: %s\n", *verdict.SafeSuggestion)
		}
		return nil
	},
}

func colorVerdict(v models.VerdictLevel) string {
	switch v {
	case models.VerdictBlock:
		return color.RedString(string(v))
	case models.VerdictSoftBlock:
		return color.YellowString(string(v))
	default:
		return color.GreenString(string(v))
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("type", string(models.ItemTypeChat),
		"Item type (chat, video_title, video_caption, video_frame_auto)")
}

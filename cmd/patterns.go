package cmd

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"modgate/internal/policy"
)

// patternsCmd represents the patterns command
var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the precheck pattern library",
	Long: `Displays the deterministic precheck patterns in evaluation order.
The first matching pattern decides the item without invoking the generative
stage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Priority", "Tag", "Verdict", "Suggestion", "Matches"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for i, p := range policy.Library() {
			suggestion := "-"
			if p.Suggestion != "" {
				suggestion = "yes"
			}
			table.Append([]string{
				strconv.Itoa(i + 1),
				string(p.Tag),
				string(p.Verdict),
				suggestion,
				p.Description,
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}

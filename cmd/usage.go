package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"modgate/internal/usagetracker"
)

var usageServerURL string

// usageCmd represents the usage command
var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show generation usage and cost totals",
	Long: `Queries a running modgate server for token usage and estimated cost of
the generative stage. Totals are held in the server process and reset when it
restarts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := fetchUsage(cmd.Context(), usageServerURL)
		if err != nil {
			return err
		}

		if summary.Calls == 0 {
			fmt.Println("No generation usage recorded.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Model", "Calls", "In Tokens", "Out Tokens", "Cost (USD)"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for model, m := range summary.ByModel {
			table.Append([]string{
				model,
				strconv.Itoa(m.Calls),
				strconv.Itoa(m.InputTokens),
				strconv.Itoa(m.OutputTokens),
				fmt.Sprintf("%.6f", m.CostUSD),
			})
		}
		table.Append([]string{
			"TOTAL",
			strconv.Itoa(summary.Calls),
			strconv.Itoa(summary.InputTokens),
			strconv.Itoa(summary.OutputTokens),
			fmt.Sprintf("%.6f", summary.CostUSD),
		})
		table.Render()
		return nil
	},
}

// fetchUsage reads the usage totals from a running server's API.
func fetchUsage(ctx context.Context, serverURL string) (usagetracker.Summary, error) {
	var summary usagetracker.Summary

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/api/v1/usage", nil)
	if err != nil {
		return summary, fmt.Errorf("build usage request: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return summary, fmt.Errorf("is the server running at %s? %w", serverURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return summary, fmt.Errorf("usage request to %s failed: %s", serverURL, resp.Status)
	}

	var body struct {
		Usage usagetracker.Summary `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return summary, fmt.Errorf("decode usage response: %w", err)
	}
	return body.Usage, nil
}

func init() {
	rootCmd.AddCommand(usageCmd)

	usageCmd.Flags().StringVar(&usageServerURL, "server", "http://localhost:8080",
		"Base URL of the running modgate server")
}

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"modgate/internal/app"
	"modgate/internal/itemfile"
	"modgate/internal/tasks"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [items.jsonl]",
	Short: "Enqueue a file of items for asynchronous moderation",
	Long: `Reads a JSONL file with one moderation item per line and enqueues each
item as a background task. Requires redis to be configured; run "modgate worker"
to process the queue, and poll the batch status endpoint for results.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()

		if appInstance.JobClient == nil {
			return fmt.Errorf("batch moderation requires redis.address to be configured")
		}

		items, err := itemfile.ReadItems(args[0])
		if err != nil {
			return err
		}

		batchID := uuid.NewString()
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Index", "Type", "Task ID"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for i, item := range items {
			task, err := tasks.NewModerationItemTask(tasks.ModerationItemPayload{
				BatchID: batchID,
				Index:   i,
				Item:    item,
			}, asynq.Retention(app.TaskRetention))
			if err != nil {
				return fmt.Errorf("build task for item %d: %w", i, err)
			}
			info, err := appInstance.JobClient.EnqueueContext(cmd.Context(), task)
			if err != nil {
				return fmt.Errorf("enqueue item %d: %w", i, err)
			}
			table.Append([]string{strconv.Itoa(i), string(item.Type), info.ID})
		}

		fmt.Printf("Batch %s: enqueued %d items.\n", batchID, len(items))
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/maheshrc27/influence-api/internal/app"
	"github.com/maheshrc27/influence-api/internal/service"
)

func NewIngestCommand() *cobra.Command {
	var (
		userID   int64
		platform string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run ingestion for a user in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := service.ParsePlatform(platform, true); err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app.App) error {
				results, err := a.Ingest.IngestUser(cmd.Context(), userID, platform)
				if err != nil {
					return err
				}
				if failed := writeIngestResults(cmd.OutOrStdout(), results); failed > 0 {
					return fmt.Errorf("%d of %d accounts failed", failed, len(results))
				}
				return nil
			})
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "User id")
	cmd.Flags().StringVarP(&platform, "platform", "p", "all", "youtube, instagram or all")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func writeIngestResults(out io.Writer, results []service.AccountResult) (failed int) {
	for _, r := range results {
		if r.Error != "" {
			failed++
			hint := ""
			if r.ReconnectRequired {
				hint = " (reconnect required)"
			}
			fmt.Fprintf(out, "%s %s: failed: %s%s\n", r.Platform, r.AccountID, r.Error, hint)
			continue
		}
		fmt.Fprintf(out, "%s %s: %d posts, %d new\n", r.Platform, r.AccountID, r.PostsIngested, r.NewPosts)
	}
	return failed
}

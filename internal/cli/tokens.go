package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/maheshrc27/influence-api/internal/app"
	job "github.com/maheshrc27/influence-api/internal/jobs"
	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/service"
)

func NewTokensCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Inspect and refresh stored platform tokens",
	}

	var userID int64
	check := &cobra.Command{
		Use:   "check",
		Short: "List a user's connected accounts and their token state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				accounts, err := a.Store.ListByUser(cmd.Context(), userID)
				if err != nil {
					return err
				}
				writeTokenTable(cmd.OutOrStdout(), accounts, time.Now())
				return nil
			})
		},
	}
	check.Flags().Int64VarP(&userID, "user", "u", 0, "User id")
	_ = check.MarkFlagRequired("user")

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh every YouTube token expiring within 30 minutes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				refreshed, failed := job.NewTokenRefreshJob(a.Store, a.Refresher).Run(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "refreshed %d, failed %d\n", refreshed, failed)
				if failed > 0 {
					return fmt.Errorf("%d token refreshes failed", failed)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(check, refresh)
	return cmd
}

func tokenState(account *models.SocialAccount, now time.Time) string {
	switch {
	case account.TokenExpiresAt == nil:
		return "no expiry"
	case account.TokenUsable(now, service.TokenSafetyMargin):
		return "valid"
	case account.Platform == models.PlatformYoutube && account.RefreshToken != nil:
		return "refresh due"
	default:
		return "reconnect required"
	}
}

func writeTokenTable(out io.Writer, accounts []*models.SocialAccount, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLATFORM\tACCOUNT\tEXPIRES\tSTATE")
	for _, acc := range accounts {
		expires := "-"
		if acc.TokenExpiresAt != nil {
			expires = acc.TokenExpiresAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", acc.ID, acc.Platform, acc.AccountID, expires, tokenState(acc, now))
	}
	w.Flush()
}

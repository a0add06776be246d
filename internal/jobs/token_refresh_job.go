package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/influence-api/internal/models"
	"github.com/maheshrc27/influence-api/internal/service"
)

const (
	refreshWindow    = 30 * time.Minute
	concurrencyLimit = 10
)

// TokenRefreshJob renews YouTube access tokens shortly before they expire so
// ingestion rarely has to refresh inline. Instagram tokens cannot be renewed
// and are left for the user to reconnect.
type TokenRefreshJob struct {
	store     service.TokenStore
	refresher service.TokenRefresher
	now       func() time.Time
}

func NewTokenRefreshJob(store service.TokenStore, refresher service.TokenRefresher) *TokenRefreshJob {
	return &TokenRefreshJob{
		store:     store,
		refresher: refresher,
		now:       time.Now,
	}
}

// RefreshTokens is the cron entry point.
func (j *TokenRefreshJob) RefreshTokens() {
	refreshed, failed := j.Run(context.Background())
	if refreshed > 0 || failed > 0 {
		slog.Info("token refresh run finished", "refreshed", refreshed, "failed", failed)
	}
}

// Run refreshes every YouTube account expiring within the next 30 minutes
// and reports how many refreshes succeeded and failed.
func (j *TokenRefreshJob) Run(ctx context.Context) (refreshed, failed int) {
	accounts, err := j.store.ListExpiring(ctx, models.PlatformYoutube, j.now().Add(refreshWindow))
	if err != nil {
		slog.Info(err.Error())
		return 0, 0
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.SocialAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			_, err := j.refresher.Refresh(ctx, acc)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				slog.Warn("unable to refresh youtube token", "account_id", acc.ID, "user_id", acc.UserID,
					"reconnect_required", service.IsReconnectRequired(err), "error", err)
				return
			}
			refreshed++
		}(acc)
	}

	wg.Wait()
	return refreshed, failed
}

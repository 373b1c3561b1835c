package workers

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"crm-backend/internal/analytics"
	"crm-backend/internal/cache"
	"crm-backend/internal/storage"
)

const (
	warmInterval = 5 * time.Minute
	warmTTL      = 10 * time.Minute
)

// StartReportWarmer periodically recomputes each organization's general
// report and refreshes the cached snapshot, so dashboard reads stay warm
// between request-driven fills.
func StartReportWarmer(ctx context.Context, store *storage.Storage, reports *analytics.Service, cacheClient cache.Client, logger *zap.Logger) {
	go func() {
		ticker := time.NewTicker(warmInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				warmOnce(ctx, store, reports, cacheClient, logger)
			}
		}
	}()
	logger.Info("report warmer started")
}

func warmOnce(ctx context.Context, store *storage.Storage, reports *analytics.Service, cacheClient cache.Client, logger *zap.Logger) {
	orgIDs, err := store.ListOrganizationIDs(ctx)
	if err != nil {
		logger.Warn("report warmer list organizations", zap.Error(err))
		return
	}

	for _, orgID := range orgIDs {
		report, err := reports.GeneralReport(ctx, orgID)
		if err != nil {
			logger.Warn("report warmer compute", zap.String("org_id", orgID), zap.Error(err))
			continue
		}

		data, err := json.Marshal(report)
		if err != nil {
			logger.Warn("report warmer marshal", zap.String("org_id", orgID), zap.Error(err))
			continue
		}

		if err := cacheClient.SetGeneralReport(orgID, data, warmTTL); err != nil {
			logger.Warn("report warmer cache set", zap.String("org_id", orgID), zap.Error(err))
		}
	}
}

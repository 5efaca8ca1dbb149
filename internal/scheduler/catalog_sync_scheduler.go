package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vibeprint/storefront/internal/app/service"
	"github.com/vibeprint/storefront/pkg/logger"
)

const syncTimeout = 2 * time.Minute

// CatalogSyncScheduler re-imports the catalog document on a cron schedule.
type CatalogSyncScheduler struct {
	cron     *cron.Cron
	spec     string
	syncer   service.CatalogSyncService
	entryID  cron.EntryID
	disabled bool
}

// NewCatalogSyncScheduler builds a scheduler for spec (standard five-field
// cron). An empty spec yields a scheduler whose Start and Stop do nothing.
func NewCatalogSyncScheduler(spec string, syncer service.CatalogSyncService) *CatalogSyncScheduler {
	return &CatalogSyncScheduler{
		cron:     cron.New(),
		spec:     spec,
		syncer:   syncer,
		disabled: spec == "",
	}
}

func (s *CatalogSyncScheduler) Start() error {
	if s.disabled {
		logger.Info("Catalog sync scheduler disabled", nil)
		return nil
	}

	id, err := s.cron.AddFunc(s.spec, s.run)
	if err != nil {
		logger.Error("Failed to add cron job for catalog sync", err, map[string]interface{}{
			"schedule": s.spec,
		})
		return err
	}
	s.entryID = id

	s.cron.Start()
	logger.Info("Catalog sync scheduler started", map[string]interface{}{
		"schedule": s.spec,
		"next_run": s.cron.Entry(id).Next,
	})
	return nil
}

func (s *CatalogSyncScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	logger.Info("Starting scheduled catalog sync", nil)

	result, err := s.syncer.Sync(ctx)
	if err != nil {
		if errors.Is(err, service.ErrCatalogSyncInProgress) {
			logger.Warn("Skipping scheduled catalog sync, previous run still active", nil)
			return
		}
		logger.Error("Scheduled catalog sync failed", err)
		return
	}

	logger.Info("Scheduled catalog sync finished", map[string]interface{}{
		"products":   result.Products,
		"categories": result.Categories,
	})
}

// Stop waits for a running sync to finish.
func (s *CatalogSyncScheduler) Stop() {
	if s.disabled {
		return
	}
	logger.Info("Stopping catalog sync scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Catalog sync scheduler stopped", nil)
}

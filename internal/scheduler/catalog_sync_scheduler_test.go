package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibeprint/storefront/internal/app/service"
)

type countingSyncer struct {
	calls atomic.Int32
	err   error
}

func (s *countingSyncer) Sync(ctx context.Context) (*service.CatalogSyncResult, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &service.CatalogSyncResult{Products: 5, Categories: 6, SyncedAt: time.Now()}, nil
}

func TestCatalogSyncScheduler_Disabled(t *testing.T) {
	syncer := &countingSyncer{}
	s := NewCatalogSyncScheduler("", syncer)

	require.NoError(t, s.Start())
	s.Stop()
	assert.Zero(t, syncer.calls.Load())
}

func TestCatalogSyncScheduler_InvalidSpec(t *testing.T) {
	s := NewCatalogSyncScheduler("every now and then", &countingSyncer{})
	assert.Error(t, s.Start())
}

func TestCatalogSyncScheduler_Start(t *testing.T) {
	s := NewCatalogSyncScheduler("@every 1h", &countingSyncer{})
	require.NoError(t, s.Start())
	defer s.Stop()

	entry := s.cron.Entry(s.entryID)
	assert.True(t, entry.Valid())
	assert.WithinDuration(t, time.Now().Add(time.Hour), entry.Next, 5*time.Second)
}

func TestCatalogSyncScheduler_Run(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		syncer := &countingSyncer{}
		NewCatalogSyncScheduler("@hourly", syncer).run()
		assert.Equal(t, int32(1), syncer.calls.Load())
	})

	t.Run("Failures are swallowed", func(t *testing.T) {
		for _, err := range []error{service.ErrCatalogSyncInProgress, errors.New("s3 unavailable")} {
			syncer := &countingSyncer{err: err}
			assert.NotPanics(t, NewCatalogSyncScheduler("@hourly", syncer).run)
			assert.Equal(t, int32(1), syncer.calls.Load())
		}
	})
}

package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibeprint/storefront/internal/app/repository"
)

func TestLocalCartNotifier_FanOutAndUnsubscribe(t *testing.T) {
	notifier := NewLocalCartNotifier()
	ctx := context.Background()

	var a, b int32
	unsubA := notifier.Subscribe(func() { atomic.AddInt32(&a, 1) })
	notifier.Subscribe(func() { atomic.AddInt32(&b, 1) })

	notifier.Publish(ctx)
	assert.Equal(t, int32(1), a)
	assert.Equal(t, int32(1), b)

	unsubA()
	unsubA()
	notifier.Publish(ctx)
	assert.Equal(t, int32(1), a)
	assert.Equal(t, int32(2), b)
}

func TestLocalCartNotifier_NoSubscribers(t *testing.T) {
	assert.NotPanics(t, func() {
		NewLocalCartNotifier().Publish(context.Background())
	})
}

func setupRedisNotifierTest(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisCartNotifier_DeliversAcrossInstances(t *testing.T) {
	_, client := setupRedisNotifierTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	first := NewRedisCartNotifier(client, "cartUpdated")
	second := NewRedisCartNotifier(client, "cartUpdated")
	require.NotEqual(t, first.InstanceID(), second.InstanceID())

	require.NoError(t, first.Start(ctx))
	require.NoError(t, second.Start(ctx))

	var firstHeard, secondHeard int32
	first.Subscribe(func() { atomic.AddInt32(&firstHeard, 1) })
	second.Subscribe(func() { atomic.AddInt32(&secondHeard, 1) })

	first.Publish(ctx)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&secondHeard) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// The publisher hears itself once, synchronously, and skips its own echo.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&firstHeard))
}

func TestRedisCartNotifier_StoresStayInSync(t *testing.T) {
	_, client := setupRedisNotifierTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	records := repository.NewRedisCartRecordRepository(client, "cart")

	writerNotifier := NewRedisCartNotifier(client, "")
	readerNotifier := NewRedisCartNotifier(client, "")
	require.NoError(t, readerNotifier.Start(ctx))

	writer := NewCartService(records, writerNotifier)
	reader := NewCartService(records, readerNotifier)
	reader.Subscribe(func() { reader.Load(ctx) })

	_, err := writer.Add(ctx, ceramicMug(), 2, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		items := reader.Items()
		return len(items) == 1 && items[0].Quantity == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, writer.Clear(ctx))
	require.Eventually(t, func() bool {
		return len(reader.Items()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRedisCartNotifier_PublishFailureIsBestEffort(t *testing.T) {
	mr, client := setupRedisNotifierTest(t)
	notifier := NewRedisCartNotifier(client, "cartUpdated")

	var heard int32
	notifier.Subscribe(func() { atomic.AddInt32(&heard, 1) })

	mr.Close()
	assert.NotPanics(t, func() {
		notifier.Publish(context.Background())
	})
	assert.Equal(t, int32(1), atomic.LoadInt32(&heard))
}

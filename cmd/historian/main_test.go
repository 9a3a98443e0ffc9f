// cmd/historian/main_test.go
package main

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mfigueroa/uno/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService builds a service with a capturing persist function so no
// database is needed.
func newTestService(batchSize int) (*HistorianService, func() []cache.RoomActionRecord) {
	hs := &HistorianService{
		batchSize: batchSize,
		batch:     make([]cache.RoomActionRecord, 0, batchSize),
	}
	var mu sync.Mutex
	var got []cache.RoomActionRecord
	hs.persistFn = func(batch []cache.RoomActionRecord) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, batch...)
		return nil
	}
	return hs, func() []cache.RoomActionRecord {
		mu.Lock()
		defer mu.Unlock()
		return append([]cache.RoomActionRecord(nil), got...)
	}
}

func TestThresholdFlushDoesNotBlock(t *testing.T) {
	hs, persisted := newTestService(1)

	// The threshold flush runs while appendToBatch holds the batch lock;
	// it must still return promptly.
	done := make(chan struct{})
	go func() {
		hs.appendToBatch(cache.RoomActionRecord{
			RoomCode:   "ABC123",
			ActorID:    uuid.New(),
			ActionType: "draw_card",
		})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("appendToBatch did not return after hitting the batch threshold")
	}

	records := persisted()
	require.Len(t, records, 1)
	assert.Equal(t, "ABC123", records[0].RoomCode)

	hs.batchMu.Lock()
	assert.Empty(t, hs.batch, "a flushed batch must be drained")
	hs.batchMu.Unlock()
}

func TestTickerFlushDrainsBatch(t *testing.T) {
	hs, persisted := newTestService(10)

	for i := 0; i < 3; i++ {
		hs.appendToBatch(cache.RoomActionRecord{RoomCode: "ABC123", ActionIndex: i})
	}
	hs.flushBatchToDB()

	records := persisted()
	require.Len(t, records, 3)
	assert.Equal(t, 2, records[2].ActionIndex)

	// Flushing an empty batch is a no-op.
	hs.flushBatchToDB()
	assert.Len(t, persisted(), 3)
}

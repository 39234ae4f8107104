package services

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebounceCoalescesEdits(t *testing.T) {
	var saves int32
	saver := NewAutosaver(50*time.Millisecond, func() error {
		atomic.AddInt32(&saves, 1)
		return nil
	})
	defer saver.Stop()

	// Edits inside the quiet window supersede each other.
	for i := 0; i < 5; i++ {
		saver.MarkDirty()
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&saves) == 1 && saver.State() == SaveClean
	}, time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&saves), "coalesced edits produce exactly one save")
}

func TestFailedSaveStaysDirty(t *testing.T) {
	var saves int32
	saver := NewAutosaver(10*time.Millisecond, func() error {
		atomic.AddInt32(&saves, 1)
		return errors.New("db unavailable")
	})
	defer saver.Stop()

	saver.MarkDirty()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&saves) >= 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, SaveDirty, saver.State())
}

func TestFlushSavesImmediately(t *testing.T) {
	var saves int32
	saver := NewAutosaver(time.Hour, func() error {
		atomic.AddInt32(&saves, 1)
		return nil
	})
	defer saver.Stop()

	saver.MarkDirty()
	saver.Flush()

	assert.Equal(t, int32(1), atomic.LoadInt32(&saves))
	assert.Equal(t, SaveClean, saver.State())
}

func TestFlushWithoutEditsIsNoop(t *testing.T) {
	var saves int32
	saver := NewAutosaver(time.Hour, func() error {
		atomic.AddInt32(&saves, 1)
		return nil
	})
	defer saver.Stop()

	saver.Flush()
	assert.Equal(t, int32(0), atomic.LoadInt32(&saves))
	assert.Equal(t, SaveClean, saver.State())
}

func TestEditDuringSaveKeepsDirty(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	saver := NewAutosaver(time.Hour, func() error {
		close(started)
		<-release
		return nil
	})
	defer saver.Stop()

	saver.MarkDirty()
	go saver.Flush()

	<-started
	saver.MarkDirty() // lands while the save is in flight
	close(release)

	assert.Eventually(t, func() bool {
		return saver.State() == SaveDirty
	}, time.Second, 5*time.Millisecond)
}

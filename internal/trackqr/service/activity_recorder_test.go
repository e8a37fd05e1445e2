package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type memoryWriter struct {
	mu    sync.Mutex
	logs  []*entity.ActivityLog
	err   error
	block chan struct{}
}

func (w *memoryWriter) Create(ctx context.Context, log *entity.ActivityLog) error {
	if w.block != nil {
		<-w.block
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.logs = append(w.logs, log)
	return nil
}

func (w *memoryWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.logs)
}

func TestActivityRecorder_DrainsOnClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	writer := &memoryWriter{}
	rec := NewActivityRecorder(writer, zap.NewNop(), 64, 3, time.Second)
	for i := 0; i < 50; i++ {
		rec.Record(newActivity(entity.ActionQRScan, nil, "u-tech", nil))
	}
	require.NoError(t, rec.Close(context.Background()))
	assert.Equal(t, 50, writer.count())

	// 关闭后丢弃，不 panic
	rec.Record(newActivity(entity.ActionQRScan, nil, "u-tech", nil))
	assert.Equal(t, 50, writer.count())
	require.NoError(t, rec.Close(context.Background()))
}

func TestActivityRecorder_NeverBlocksCaller(t *testing.T) {
	defer goleak.VerifyNone(t)

	writer := &memoryWriter{block: make(chan struct{})}
	rec := NewActivityRecorder(writer, zap.NewNop(), 2, 1, time.Second)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			rec.Record(newActivity(entity.ActionQRScan, nil, "", nil))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked while the writer was stalled")
	}

	close(writer.block)
	require.NoError(t, rec.Close(context.Background()))
	assert.LessOrEqual(t, writer.count(), 3, "overflow entries are dropped")
}

func TestActivityRecorder_WriteFailureIsSwallowed(t *testing.T) {
	defer goleak.VerifyNone(t)

	writer := &memoryWriter{err: errors.New("disk full")}
	rec := NewActivityRecorder(writer, zap.NewNop(), 8, 1, time.Second)
	log := newActivity(entity.ActionTMSUpdate, nil, "", map[string]interface{}{"source": SourceIRCEPT})
	rec.Record(log)
	require.NoError(t, rec.Close(context.Background()))

	assert.Nil(t, log.UserID, "system entries carry no user")
	assert.False(t, log.CreatedAt.IsZero())
	assert.Equal(t, 0, writer.count())
}

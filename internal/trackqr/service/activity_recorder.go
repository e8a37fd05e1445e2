package service

import (
	"context"
	"sync"
	"time"

	"github.com/mrbharat03/Indian-Railway/internal/metrics"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"go.uber.org/zap"
)

// ActivityWriter 审计日志持久化
type ActivityWriter interface {
	Create(ctx context.Context, log *entity.ActivityLog) error
}

// ActivityRecorder 异步写审计日志。写入失败只记运行日志，不影响主流程
type ActivityRecorder struct {
	writer  ActivityWriter
	logger  *zap.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan *entity.ActivityLog
	wg     sync.WaitGroup
}

// NewActivityRecorder 启动 workers 个写入协程
func NewActivityRecorder(writer ActivityWriter, logger *zap.Logger, bufferSize, workers int, timeout time.Duration) *ActivityRecorder {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if workers <= 0 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	r := &ActivityRecorder{
		writer:  writer,
		logger:  logger,
		timeout: timeout,
		queue:   make(chan *entity.ActivityLog, bufferSize),
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.run()
	}
	return r
}

// Record 入队，不阻塞调用方；队列满或已关闭时丢弃
func (r *ActivityRecorder) Record(log *entity.ActivityLog) {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.drop(log, "recorder closed")
		return
	}

	select {
	case r.queue <- log:
	default:
		r.drop(log, "queue full")
	}
}

func (r *ActivityRecorder) drop(log *entity.ActivityLog, reason string) {
	metrics.ActivityDropped.Inc()
	r.logger.Warn("Activity log dropped",
		zap.String("reason", reason),
		zap.String("action", log.Action),
	)
}

func (r *ActivityRecorder) run() {
	defer r.wg.Done()
	for log := range r.queue {
		r.write(log)
	}
}

func (r *ActivityRecorder) write(log *entity.ActivityLog) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.writer.Create(ctx, log); err != nil {
		metrics.ActivityFailures.Inc()
		fields := []zap.Field{zap.String("action", log.Action), zap.Error(err)}
		if log.QRCodeID != nil {
			fields = append(fields, zap.String("qr_code_id", *log.QRCodeID))
		}
		r.logger.Error("Failed to write activity log", fields...)
	}
}

// Close 停止接收并等待队列写完，ctx 到期后直接返回
func (r *ActivityRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

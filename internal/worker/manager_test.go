package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/worker"
)

// blockingWorker ждёт Stop и сообщает о запуске
type blockingWorker struct {
	*worker.BaseWorker
	started chan struct{}
	ignore  bool
}

func newBlockingWorker(name string, ignoreStop bool) *blockingWorker {
	return &blockingWorker{
		BaseWorker: worker.NewBaseWorker(name, "group", zap.NewNop()),
		started:    make(chan struct{}),
		ignore:     ignoreStop,
	}
}

func (w *blockingWorker) Start(ctx context.Context) error {
	close(w.started)
	if w.ignore {
		<-ctx.Done()
		return ctx.Err()
	}
	select {
	case <-w.StopChan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestWorkerManager_NoWorkers(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), time.Second)
	assert.Error(t, m.Start(context.Background()))
}

func TestWorkerManager_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := worker.NewWorkerManager(zap.NewNop(), time.Second)
	a := newBlockingWorker("a", false)
	b := newBlockingWorker("b", false)
	m.Register(a)
	m.Register(b)

	require.NoError(t, m.Start(context.Background()))
	<-a.started
	<-b.started

	require.NoError(t, m.Stop())
	assert.True(t, a.IsStopped())
	assert.True(t, b.IsStopped())
}

func TestWorkerManager_StopTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())

	m := worker.NewWorkerManager(zap.NewNop(), 50*time.Millisecond)
	w := newBlockingWorker("stuck", true)
	m.Register(w)

	require.NoError(t, m.Start(ctx))
	<-w.started

	assert.Error(t, m.Stop())

	// отмена контекста отпускает воркер
	cancel()
	require.Eventually(t, func() bool { return m.Stop() == nil }, time.Second, 10*time.Millisecond)
}

func TestBaseWorker_Pause(t *testing.T) {
	w := worker.NewBaseWorker("pause", "group", zap.NewNop())
	assert.True(t, w.Pause(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, w.Pause(ctx, time.Hour))

	require.NoError(t, w.Stop())
	assert.False(t, w.Pause(context.Background(), time.Hour))
}

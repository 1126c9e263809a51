package concurrency

import (
	"sync/atomic"
	"testing"
	"time"

	"c2_console/internal/core"
)

type noopLogger struct{}

func (l *noopLogger) Debug(msg string, fields ...interface{})               {}
func (l *noopLogger) Info(msg string, fields ...interface{})                {}
func (l *noopLogger) Warn(msg string, fields ...interface{})                {}
func (l *noopLogger) Error(msg string, fields ...interface{})               {}
func (l *noopLogger) Fatal(msg string, fields ...interface{})               {}
func (l *noopLogger) WithField(key string, value interface{}) core.ILogger  { return l }
func (l *noopLogger) WithFields(fields map[string]interface{}) core.ILogger { return l }

func TestWorkerPool_Submit(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{Name: "test", MaxWorkers: 4, MaxCapacity: 10}, &noopLogger{})
	defer pool.Stop()

	var counter int64
	for i := 0; i < 20; i++ {
		if err := pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
		}); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	pool.Stop()
	if got := atomic.LoadInt64(&counter); got != 20 {
		t.Errorf("Expected 20 tasks executed, got %d", got)
	}
}

func TestWorkerPool_Group(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{Name: "test-group", MaxWorkers: 4, MaxCapacity: 10}, &noopLogger{})
	defer pool.Stop()

	results := make([]int, 5)
	group := pool.Group()
	for i := 0; i < 5; i++ {
		i := i
		group.Submit(func() {
			results[i] = i * 2
		})
	}
	group.Wait()

	for i := 0; i < 5; i++ {
		if results[i] != i*2 {
			t.Errorf("slot %d: expected %d, got %d", i, i*2, results[i])
		}
	}
}

func TestWorkerPool_NonBlockingFull(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		Name: "test-full", MaxWorkers: 1, MaxCapacity: 1, NonBlocking: true,
	}, &noopLogger{})
	defer pool.Stop()

	block := make(chan struct{})
	_ = pool.Submit(func() { <-block })

	var rejected bool
	for i := 0; i < 10; i++ {
		if err := pool.Submit(func() { <-block }); err != nil {
			rejected = true
			break
		}
		time.Sleep(time.Millisecond)
	}
	close(block)

	if !rejected {
		t.Error("Expected at least one rejected submit on a full non-blocking pool")
	}
}

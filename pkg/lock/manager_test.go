package lock_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/ensureline/pkg/lock"
	"github.com/aretw0/ensureline/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SerializesSameKey(t *testing.T) {
	m := lock.NewManager()
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.WithLock(ctx, "/etc/profile", func(ctx context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					cur := atomic.LoadInt32(&maxInside)
					if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, m.Active(), "idle keys are forgotten")
}

func TestManager_DifferentKeysRunConcurrently(t *testing.T) {
	m := lock.NewManager()
	ctx := context.Background()

	entered := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = m.WithLock(ctx, "A.B(ONE)", func(ctx context.Context) error {
			close(entered)
			<-done
			return nil
		})
	}()
	<-entered

	err := m.WithLock(ctx, "A.B(TWO)", func(ctx context.Context) error { return nil })
	close(done)
	assert.NoError(t, err)
}

func TestManager_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := lock.NewManager().WithLock(context.Background(), "k", func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

type recordingLocker struct {
	mu       sync.Mutex
	locked   []string
	unlocked []string
	ttl      time.Duration
	fail     error
}

func (r *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	r.mu.Lock()
	r.locked = append(r.locked, key)
	r.ttl = ttl
	r.mu.Unlock()
	return func(ctx context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.unlocked = append(r.unlocked, key)
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &recordingLocker{}
	m := lock.NewManager(lock.WithLocker(locker), lock.WithTTL(5*time.Second))

	called := false
	err := m.WithLock(context.Background(), "SYS1.PARMLIB(X)", func(ctx context.Context) error {
		called = true
		assert.Equal(t, []string{"SYS1.PARMLIB(X)"}, locker.locked)
		assert.Empty(t, locker.unlocked)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, []string{"SYS1.PARMLIB(X)"}, locker.unlocked)
	assert.Equal(t, 5*time.Second, locker.ttl)
}

func TestManager_DistributedLockerFailure(t *testing.T) {
	locker := &recordingLocker{fail: context.DeadlineExceeded}
	m := lock.NewManager(lock.WithLocker(locker))

	err := m.WithLock(context.Background(), "k", func(ctx context.Context) error {
		t.Fatal("critical section must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, m.Active())
}

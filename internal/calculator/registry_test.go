package calculator

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(nil)

	id, st := r.Create(ctx)
	require.NotEmpty(t, id)
	assert.Empty(t, st.Expression)
	assert.Equal(t, 1, r.Len())

	st, err := r.Do(id, func(s *Session) error { return s.Load("2+2") })
	require.NoError(t, err)
	assert.Equal(t, "4", st.Preview)

	require.NoError(t, r.Delete(ctx, id))
	assert.Equal(t, 0, r.Len())

	_, err = r.Do(id, func(*Session) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, r.Delete(ctx, id), ErrSessionNotFound)
}

func TestRegistryReturnsStateWhenCommandFails(t *testing.T) {
	r := NewRegistry(nil)
	id, _ := r.Create(context.Background())

	_, err := r.Do(id, func(s *Session) error { return s.AppendDigit('1') })
	require.NoError(t, err)

	st, err := r.Do(id, func(s *Session) error { return s.AppendDigit('z') })
	assert.ErrorIs(t, err, ErrInvalidDigit)
	assert.Equal(t, "1", st.Expression)
}

func TestRegistrySerializesCommandsPerSession(t *testing.T) {
	r := NewRegistry(nil)
	id, _ := r.Create(context.Background())

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Do(id, func(s *Session) error { return s.AppendDigit('1') })
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st, err := r.Do(id, func(*Session) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("1", n), st.Expression)
}

func TestRegistrySessionsAreIndependent(t *testing.T) {
	rec := &fakeRecorder{}
	r := NewRegistry(rec)
	a, _ := r.Create(context.Background())
	b, _ := r.Create(context.Background())

	_, err := r.Do(a, func(s *Session) error { return s.Load("1+1") })
	require.NoError(t, err)

	st, err := r.Do(b, func(*Session) error { return nil })
	require.NoError(t, err)
	assert.Empty(t, st.Expression)

	_, err = r.Do(a, func(s *Session) error {
		s.Apply()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []recorded{{expression: "1+1", result: "2"}}, rec.calls)
}

func TestRegistryEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(nil, WithRegistryClock(func() time.Time { return now }))

	stale, _ := r.Create(ctx)
	active, _ := r.Create(ctx)

	now = now.Add(20 * time.Minute)
	_, err := r.Do(active, func(s *Session) error { return s.AppendDigit('7') })
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, r.EvictIdle(ctx, 30*time.Minute))

	assert.False(t, r.Exists(stale))
	assert.True(t, r.Exists(active))

	st, err := r.Do(active, func(*Session) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, "7", st.Expression)

	_, err = r.Do(stale, func(*Session) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistryExpireIdleStopsWithContext(t *testing.T) {
	r := NewRegistry(nil)
	r.Create(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.ExpireIdle(ctx, time.Nanosecond, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ExpireIdle did not return after cancel")
	}
}

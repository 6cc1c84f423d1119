package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestMemory_SetGetExpire(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory().WithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "session:a", []byte("x"), time.Minute))
	got, err := m.Get(ctx, "session:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)

	clock.now = clock.now.Add(2 * time.Minute)
	got, err = m.Get(ctx, "session:a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemory_KeepTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory().WithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v1"), time.Minute))
	clock.now = clock.now.Add(30 * time.Second)
	require.NoError(t, m.Set(ctx, "k", []byte("v2"), KeepTTL))

	got, _ := m.Get(ctx, "k")
	assert.Equal(t, []byte("v2"), got)

	clock.now = clock.now.Add(31 * time.Second)
	got, _ = m.Get(ctx, "k")
	assert.Nil(t, got)
}

func TestMemory_KeepTTLSkipsMissingKey(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory().WithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "gone", []byte("v"), KeepTTL))
	got, err := m.Get(ctx, "gone")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, m.Set(ctx, "k", []byte("v1"), time.Minute))
	clock.now = clock.now.Add(2 * time.Minute)
	require.NoError(t, m.Set(ctx, "k", []byte("v2"), KeepTTL))
	got, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemory_Sets(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SAdd(ctx, "idx", "b", time.Hour))
	require.NoError(t, m.SAdd(ctx, "idx", "a", time.Hour))
	members, err := m.SMembers(ctx, "idx")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, members)

	require.NoError(t, m.SRem(ctx, "idx", "a"))
	members, _ = m.SMembers(ctx, "idx")
	assert.Equal(t, []string{"b"}, members)

	require.NoError(t, m.Delete(ctx, "idx"))
	members, _ = m.SMembers(ctx, "idx")
	assert.Empty(t, members)
}

func TestMemory_IncrWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory().WithClock(clock.Now)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := m.Incr(ctx, "login:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	clock.now = clock.now.Add(time.Minute)
	n, err := m.Incr(ctx, "login:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

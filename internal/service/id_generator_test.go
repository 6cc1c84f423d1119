package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "brotos/internal/errors"
)

func sequence(values ...int) func(int) int {
	i := 0
	return func(int) int {
		v := values[i%len(values)]
		i++
		return v
	}
}

func TestIDGenerator_Next(t *testing.T) {
	tests := []struct {
		name      string
		reserved  string
		draws     []int
		taken     map[string]bool
		want      string
		wantError error
	}{
		{
			name:  "first draw free",
			draws: []int{23456},
			want:  "123456",
		},
		{
			name:  "resamples on collision",
			draws: []int{0, 1},
			taken: map[string]bool{"100000": true},
			want:  "100001",
		},
		{
			name:     "skips reserved id",
			reserved: "100000",
			draws:    []int{0, 899999},
			want:     "999999",
		},
		{
			name:      "gives up when every draw collides",
			draws:     []int{0},
			taken:     map[string]bool{"100000": true},
			wantError: apperrors.ErrIDSpaceExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewIDGenerator(tt.reserved)
			g.intn = sequence(tt.draws...)

			id, err := g.Next(context.Background(), func(_ context.Context, id string) (bool, error) {
				return tt.taken[id], nil
			})

			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				assert.ErrorIs(t, err, apperrors.ErrInvariant)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestIDGenerator_PropagatesLookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewIDGenerator("18112025").Next(context.Background(), func(context.Context, string) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestIDGenerator_UniqueAndNeverReserved(t *testing.T) {
	g := NewIDGenerator("18112025")
	seen := map[string]bool{}
	for i := 0; i < 2000; i++ {
		id, err := g.Next(context.Background(), func(_ context.Context, id string) (bool, error) {
			return seen[id], nil
		})
		require.NoError(t, err)
		assert.Len(t, id, 6)
		assert.NotEqual(t, "18112025", id)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

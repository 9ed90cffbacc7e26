package passid

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGenerate_Format(t *testing.T) {
	g := NewGenerator(func(context.Context, string) (bool, error) { return false, nil })

	rapid.Check(t, func(rt *rapid.T) {
		id, err := g.Generate(context.Background())
		if err != nil {
			rt.Fatalf("Generate: %v", err)
		}
		if !Valid(id) {
			rt.Fatalf("id %q does not match pass format", id)
		}
	})
}

func TestGenerate_SkipsTakenIDs(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		collisions := rapid.IntRange(0, MaxAttempts-1).Draw(rt, "collisions")
		taken := map[string]bool{}
		calls := 0
		g := NewGenerator(func(_ context.Context, id string) (bool, error) {
			calls++
			if calls <= collisions {
				taken[id] = true
				return true, nil
			}
			return false, nil
		})

		id, err := g.Generate(context.Background())
		if err != nil {
			rt.Fatalf("Generate: %v", err)
		}
		if taken[id] {
			rt.Fatalf("returned id %q was reported as taken", id)
		}
		if calls != collisions+1 {
			rt.Fatalf("store reads = %d, want %d", calls, collisions+1)
		}
	})
}

func TestGenerate_Exhausted(t *testing.T) {
	calls := 0
	g := NewGenerator(func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}, WithMaxAttempts(3))

	_, err := g.Generate(context.Background())
	require.ErrorIs(t, err, ErrGenerationExhausted)
	assert.Equal(t, 3, calls)
}

func TestGenerate_StoreError(t *testing.T) {
	boom := errors.New("connection reset")
	g := NewGenerator(func(context.Context, string) (bool, error) { return false, boom })

	_, err := g.Generate(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestValid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"TWS-AB12-9ZXY", true},
		{"TWS-0000-0000", true},
		{"tws-AB12-9ZXY", false},
		{"TWS-AB1-9ZXY", false},
		{"TWS-AB12-9ZXYZ", false},
		{"TWS-ab12-9zxy", false},
		{"XYZ-AB12-9ZXY", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.id))
		})
	}
}

package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMAMA(t *testing.T) {
	t.Parallel()

	t.Run("flat", func(t *testing.T) {
		m := NewMAMADefault[int64](50)
		for range 100 {
			require.Equal(t, int64(100), m.Update(100))
		}
		require.True(t, m.Valid())
	})

	t.Run("ramp", func(t *testing.T) {
		m := NewMAMA[int64](50, 0.3, 0.05)
		for i := int64(0); i <= 100; i++ {
			v := m.Update(i)
			require.True(t, i/2 <= v && v <= i, "%d: %d", i, v)
		}
	})

	t.Run("alternating", func(t *testing.T) {
		m := NewMAMA[int64](50, 0.3, 0.05)
		for i := range 100 {
			v := m.Update(0)
			if i > 50 {
				require.True(t, 40 <= v && v <= 60, "%d: %d", i, v)
			}
			v = m.Update(100)
			if i > 50 {
				require.True(t, 40 <= v && v <= 60, "%d: %d", i, v)
			}
		}
	})

	t.Run("warmup", func(t *testing.T) {
		m := NewMAMADefault[float64](4)
		require.Equal(t, int64(4), m.InitPeriod())
		require.Equal(t, 7.0, m.Update(7))
		require.False(t, m.Valid())
	})
}

func TestRate(t *testing.T) {
	t.Parallel()

	r := NewRate(NewMAMADefault[float64](5))
	ts := time.Unix(0, 0)
	require.Zero(t, r.Observe(0, ts))
	for i := uint64(1); i <= 20; i++ {
		v := r.Observe(i*30, ts.Add(time.Duration(i)*time.Second))
		require.InDelta(t, 30.0, v, 0.001)
	}
	require.Zero(t, r.Observe(10, ts.Add(30*time.Second)))
}

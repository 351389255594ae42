package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDirection(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected int
	}{
		{"in range", 123, 123},
		{"360 wraps to 0", 360, 0},
		{"above 360", 365, 5},
		{"negative", -10, 350},
		{"large negative", -370, 350},
		{"rounds to nearest degree", 89.6, 90},
		{"359.6 wraps through rounding", 359.6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDirection(tt.input))
		})
	}
}

func TestMostCommonDirection(t *testing.T) {
	t.Run("wrap-around bearings share bin 0", func(t *testing.T) {
		// 358, 359, 1, 2 all fall in the wrapped bin 0; 200 stands alone.
		got := MostCommonDirection([]*float64{f(358), f(359), f(1), f(2), f(200)})
		require.NotNil(t, got)
		assert.Equal(t, 0, *got)
	})

	t.Run("dominant bin wins", func(t *testing.T) {
		got := MostCommonDirection([]*float64{f(271), f(268), f(274), f(90)})
		require.NotNil(t, got)
		assert.Equal(t, 270, *got)
	})

	t.Run("ties go to the lowest bin key", func(t *testing.T) {
		got := MostCommonDirection([]*float64{f(200), f(100)})
		require.NotNil(t, got)
		assert.Equal(t, 100, *got)

		// Same samples in the other order give the same answer.
		got = MostCommonDirection([]*float64{f(100), f(200)})
		require.NotNil(t, got)
		assert.Equal(t, 100, *got)
	})

	t.Run("absent samples are skipped", func(t *testing.T) {
		got := MostCommonDirection([]*float64{nil, f(44), nil})
		require.NotNil(t, got)
		assert.Equal(t, 40, *got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, MostCommonDirection(nil))
		assert.Nil(t, MostCommonDirection([]*float64{nil, nil}))
	})
}

package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	total, err := Sum([]Line{{UnitCents: 1299, Quantity: 2}, {UnitCents: 500, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(3098), total)

	empty, err := Sum(nil)
	require.NoError(t, err)
	assert.Zero(t, empty)
}

func TestSumOverflow(t *testing.T) {
	_, err := Sum([]Line{{UnitCents: math.MaxInt64, Quantity: 2}})
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestLineTotal(t *testing.T) {
	total, err := LineTotal(250, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), total)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12.99", Format(1299))
	assert.Equal(t, "0.05", Format(5))
	assert.Equal(t, "100.00", Format(10000))
	assert.InDelta(t, 12.99, Dollars(1299).InexactFloat64(), 0.0001)
}

package fund

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newY(t *testing.T, qty float64) *Position {
	t.Helper()
	p, err := NewPosition(context.Background(), testSource(), "Y", day0, day0.Add(29), qty, 0.025)
	require.NoError(t, err)
	return p
}

func TestPositionValuation(t *testing.T) {
	p := newY(t, 10)
	require.NoError(t, p.AdjustQuantity(day0.Add(10), 5))
	require.NoError(t, p.AdjustQuantity(day0.Add(20), -12))

	vals := p.Valuation()
	for i, pt := range p.Prices().Points {
		assert.InDelta(t, pt.AdjClose*p.QuantityOn(pt.Date), vals[i], 1e-9, pt.Date.String())
	}
	assert.Equal(t, 10.0, p.QuantityOn(day0.Add(9)))
	assert.Equal(t, 15.0, p.QuantityOn(day0.Add(10)))
	assert.Equal(t, 3.0, p.QuantityOn(day0.Add(29)))
}

func TestPositionRejectsNegativeHolding(t *testing.T) {
	p := newY(t, 10)
	require.NoError(t, p.AdjustQuantity(day0.Add(20), -10))
	before := p.Steps()

	err := p.AdjustQuantity(day0.Add(10), -5)
	assert.True(t, errors.Is(err, ErrInvalidQuantity), "would leave -5 from day 20")
	assert.Equal(t, before, p.Steps())

	err = p.AdjustQuantity(day0.Add(5), -11)
	assert.True(t, errors.Is(err, ErrInvalidQuantity))
}

func TestPositionRoundTrip(t *testing.T) {
	p := newY(t, 10)
	require.NoError(t, p.AdjustQuantity(day0.Add(3), 7))
	require.NoError(t, p.AdjustQuantity(day0.Add(8), -7))
	assert.Equal(t, 10.0, p.QuantityOn(day0.Add(8)))
	assert.Equal(t, 10.0, p.QuantityOn(day0.Add(29)))
}

func TestPositionSellOutKeepsHistory(t *testing.T) {
	p := newY(t, 0.3)
	require.NoError(t, p.AdjustQuantity(day0.Add(5), -0.1))
	require.NoError(t, p.AdjustQuantity(day0.Add(6), -0.2))
	assert.Zero(t, p.QuantityOn(day0.Add(6)))
	assert.Greater(t, p.ValueOn(day0.Add(5)), 0.0)
	assert.Zero(t, p.ValueOn(day0.Add(7)))
}

func TestPositionValueOnForwardFills(t *testing.T) {
	p, err := NewPosition(context.Background(), testSource(), "Z", day0, day0.Add(29), 10, 0)
	require.NoError(t, err)
	assert.Zero(t, p.ValueOn(day0.Add(4)), "no bar yet")
	assert.Equal(t, 200.0, p.ValueOn(day0.Add(5)))
	last := p.Prices().Last()
	assert.Equal(t, last.AdjClose*10, p.ValueOn(last.Date.Add(3)))
}

func TestPositionErrors(t *testing.T) {
	ctx := context.Background()
	_, err := NewPosition(ctx, testSource(), "NOPE", day0, day0.Add(29), 1, 0)
	assert.True(t, errors.Is(err, ErrDataUnavailable))
	_, err = NewPosition(ctx, testSource(), "Y", day0, day0.Add(29), 0, 0)
	assert.True(t, errors.Is(err, ErrInvalidQuantity))
}

func TestPositionRiskUnsetUntilRelated(t *testing.T) {
	p := newY(t, 10)
	assert.False(t, p.Beta().IsSet())
	assert.False(t, p.Alpha().IsSet())

	b, err := NewBenchmark(context.Background(), testSource(), "X", 100000, day0, day0.Add(29), LumpSum, 0.025)
	require.NoError(t, err)
	p.relateTo(b)
	_, ok := p.Beta().Float()
	assert.True(t, ok)
	_, ok = p.Alpha().Float()
	assert.True(t, ok)
}

package innerproduct

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suffix-labs/ctproof/pkg/fault"
	"github.com/suffix-labs/ctproof/pkg/group"
)

func TestAggregateEmpty(t *testing.T) {
	_, err := Aggregate(nil)
	assert.True(t, errors.Is(err, fault.ErrEmptyAggregation))

	_, err = Aggregate([]*group.Point{})
	assert.True(t, errors.Is(err, fault.ErrEmptyAggregation))
}

func TestAggregateSingletonIsIdentityMap(t *testing.T) {
	h := group.DefaultGenerators().H
	r, err := Aggregate([]*group.Point{h})
	require.NoError(t, err)
	assert.Equal(t, h.Compressed(), r.Compressed())
}

func TestAggregateSums(t *testing.T) {
	g := group.BasePoint()
	got, err := Aggregate([]*group.Point{g, g, g})
	require.NoError(t, err)

	want, err := g.Mul(group.ScalarFromUint64(3))
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}

func TestAggregateRejectsIdentity(t *testing.T) {
	g := group.BasePoint()
	negG, err := g.Mul(group.ScalarFromUint64(1).Negate())
	require.NoError(t, err)

	_, err = Aggregate([]*group.Point{g, negG})
	assert.True(t, errors.Is(err, fault.ErrGroupFailure))

	// Identity in the middle is rejected even if the final sum is not.
	_, err = Aggregate([]*group.Point{g, negG, g})
	assert.True(t, errors.Is(err, fault.ErrGroupFailure))
}

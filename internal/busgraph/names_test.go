package busgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBusNameCompactForms(t *testing.T) {
	r, err := ParseBusName("in0", 8)
	require.NoError(t, err)
	assert.Equal(t, RouteIn, r.Kind)
	assert.Equal(t, []int{0}, r.Indices())

	r, err = ParseBusName("out0-3", 8)
	require.NoError(t, err)
	assert.Equal(t, RouteOut, r.Kind)
	assert.Equal(t, []int{0, 1, 2, 3}, r.Indices())

	r, err = ParseBusName("aux2out", 8)
	require.NoError(t, err)
	assert.Equal(t, RouteAuxOut, r.Kind)
	assert.Equal(t, []int{2}, r.Indices())

	r, err = ParseBusName("chain0out", 8)
	require.NoError(t, err)
	assert.Equal(t, RouteChainOut, r.Kind)
}

func TestParseBusNameSpacedForms(t *testing.T) {
	r, err := ParseBusName("aux 0 in", 8)
	require.NoError(t, err)
	assert.Equal(t, RouteAuxIn, r.Kind)
	assert.Equal(t, []int{0}, r.Indices())

	r, err = ParseBusName("aux 1 out", 8)
	require.NoError(t, err)
	assert.Equal(t, RouteAuxOut, r.Kind)
	assert.Equal(t, []int{1}, r.Indices())
}

func TestParseBusNameRejectsOutOfRange(t *testing.T) {
	_, err := ParseBusName("in8", 8)
	assert.Error(t, err)
}

func TestParseBusNameRejectsInvertedRange(t *testing.T) {
	_, err := ParseBusName("in3-1", 8)
	assert.Error(t, err)
}

func TestParseBusNameRejectsGarbage(t *testing.T) {
	_, err := ParseBusName("frobnicate4", 8)
	assert.Error(t, err)
}

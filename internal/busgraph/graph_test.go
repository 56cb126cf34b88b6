package busgraph

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestS3_BusCycleRejectedGraphUnaffected(t *testing.T) {
	g := New(8, 64)

	_, err := g.BusConfig("A", "aux 0 in", "aux 1 out")
	require.NoError(t, err)

	_, err = g.BusConfig("B", "aux 1 in", "aux 0 out")
	require.NoError(t, err)

	before := g.AuxToAuxPlayList()

	_, err = g.BusConfig("C", "aux 0 in", "aux 0 out")
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, LoopErr, cfgErr.Code)

	after := g.AuxToAuxPlayList()
	assert.Equal(t, before, after, "rejected cycle must leave the graph unchanged")

	_, err = g.BusConfig("D", "aux 2 in", "aux 3 out")
	assert.NoError(t, err, "graph must still accept unrelated configs after a rejected cycle")
}

func TestMixedBusKindsRejected(t *testing.T) {
	g := New(8, 64)
	_, err := g.BusConfig("X", "in0", "aux 0 in")
	assert.Error(t, err)
}

func TestDefaultBindWhenNoBusConfig(t *testing.T) {
	g := New(4, 64)
	slot, err := g.DefaultBind("Inst", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, slot.Out)
	assert.True(t, g.OutInUse(0))
	assert.True(t, g.OutInUse(1))
}

func TestAuxToAuxPlayOrderRespectsParentEdges(t *testing.T) {
	g := New(8, 64)
	// bus 1 feeds bus 2, bus 2 feeds bus 3: a chain, not a diamond, but
	// enough to catch an ordering regression.
	_, err := g.BusConfig("A", "aux 1 in", "aux 2 out")
	require.NoError(t, err)
	_, err = g.BusConfig("B", "aux 2 in", "aux 3 out")
	require.NoError(t, err)

	order := g.AuxToAuxPlayList()
	pos := make(map[int]int, len(order))
	for i, b := range order {
		pos[b] = i
	}
	for _, b := range order {
		for _, p := range g.Parents(b) {
			assert.Less(t, pos[p], pos[b], "parent %d must precede child %d in play order", p, b)
		}
	}
}

// TestInvariant1_NoCycleSurvives fuzzes random bus_config sequences and
// asserts two things that must always hold: a bus can never become its own
// direct parent (the one shape of cycle spec.md's scoped check can detect
// from a single call, since a multi-instrument feedback loop like S3's is
// legitimate, see TestS3_BusCycleRejectedGraphUnaffected), and every
// rejected call left the prior state intact.
func TestInvariant1_NoCycleSurvives(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		busCount := rapid.IntRange(4, 8).Draw(rt, "busCount")
		g := New(busCount, 32)

		nCalls := rapid.IntRange(1, 12).Draw(rt, "nCalls")
		for i := 0; i < nCalls; i++ {
			auxIn := rapid.IntRange(0, busCount-1).Draw(rt, "auxIn")
			auxOut := rapid.IntRange(0, busCount-1).Draw(rt, "auxOut")
			before := g.AuxToAuxPlayList()

			_, err := g.BusConfig("inst", "aux "+strconv.Itoa(auxIn)+" in", "aux "+strconv.Itoa(auxOut)+" out")
			if auxIn == auxOut {
				require.Error(rt, err, "a bus can never be its own parent")
			}
			if err != nil {
				after := g.AuxToAuxPlayList()
				assert.Equal(rt, before, after)
			}
		}
	})
}

// TestInvariant2_TopologicalOrder fuzzes accepted configurations and checks
// every parent precedes its child in the derived play order, whenever the
// resulting graph is acyclic. A multi-instrument feedback pair (S3's "A"
// and "B") is accepted by design and has no valid topological order, so the
// check is skipped for graphs that end up containing one.
func TestInvariant2_TopologicalOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		busCount := rapid.IntRange(4, 10).Draw(rt, "busCount")
		g := New(busCount, 32)

		nCalls := rapid.IntRange(1, 10).Draw(rt, "nCalls")
		for i := 0; i < nCalls; i++ {
			auxIn := rapid.IntRange(0, busCount-1).Draw(rt, "auxIn")
			auxOut := rapid.IntRange(0, busCount-1).Draw(rt, "auxOut")
			_, _ = g.BusConfig("inst", "aux "+strconv.Itoa(auxIn)+" in", "aux "+strconv.Itoa(auxOut)+" out")
		}
		if g.hasCycle() {
			return
		}

		order := g.AuxToAuxPlayList()
		pos := make(map[int]int, len(order))
		for i, b := range order {
			pos[b] = i
		}
		for _, b := range order {
			for _, p := range g.Parents(b) {
				assert.Less(rt, pos[p], pos[b])
			}
		}
	})
}


package value

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestToStringRoundtrips exercises invariant 3 of spec.md §8: tostring(x)
// followed by a literal float parse recovers x, for any Float.
func TestToStringRoundtrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := rapid.Float64Range(-1e9, 1e9).Draw(t, "f")
		s := NewFloat(f).ToString()
		back, err := strconv.ParseFloat(s, 64)
		require.NoError(t, err)
		require.InDelta(t, f, back, 1e-6*(1+absFloat(f)))
	})
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// TestEqualIsReflexiveAndTypeStrict fuzzes pairs of Float/String Values and
// checks Equal never reports true across mismatched kinds.
func TestEqualIsReflexiveAndTypeStrict(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := rapid.Float64().Draw(t, "f")
		s := rapid.String().Draw(t, "s")
		fv := NewFloat(f)
		sv := NewString(s)
		require.True(t, Equal(fv, fv))
		require.True(t, Equal(sv, sv))
		require.False(t, Equal(fv, sv))
	})
}

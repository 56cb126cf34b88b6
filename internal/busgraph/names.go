package busgraph

import (
	"fmt"
	"regexp"
	"strconv"
)

// RouteKind classifies a parsed bus name token.
type RouteKind int

const (
	RouteIn RouteKind = iota
	RouteOut
	RouteAuxIn
	RouteAuxOut
	RouteChainIn
	RouteChainOut
)

// BusRange is the typed range of bus indices a single busname token names.
type BusRange struct {
	Kind RouteKind
	Lo   int
	Hi   int // inclusive
}

var patterns = []struct {
	kind RouteKind
	re   *regexp.Regexp
}{
	{RouteAuxIn, regexp.MustCompile(`^aux\s*(\d+)(?:\s*-\s*(\d+))?\s*in$`)},
	{RouteAuxOut, regexp.MustCompile(`^aux\s*(\d+)(?:\s*-\s*(\d+))?\s*out$`)},
	{RouteChainIn, regexp.MustCompile(`^chain\s*(\d+)(?:\s*-\s*(\d+))?\s*in$`)},
	{RouteChainOut, regexp.MustCompile(`^chain\s*(\d+)(?:\s*-\s*(\d+))?\s*out$`)},
	{RouteIn, regexp.MustCompile(`^in\s*(\d+)(?:\s*-\s*(\d+))?$`)},
	{RouteOut, regexp.MustCompile(`^out\s*(\d+)(?:\s*-\s*(\d+))?$`)},
}

// ParseBusName parses one busname token (e.g. "in0", "in 0-3", "aux 2 in",
// "aux2out", "chain0out") per spec.md §4.4's bus name grammar. busCount
// bounds range validity: b >= a and b < busCount.
func ParseBusName(s string, busCount int) (BusRange, error) {
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		a, err := strconv.Atoi(m[1])
		if err != nil {
			return BusRange{}, fmt.Errorf("busgraph: bad bus index in %q", s)
		}
		b := a
		if m[2] != "" {
			b, err = strconv.Atoi(m[2])
			if err != nil {
				return BusRange{}, fmt.Errorf("busgraph: bad bus range in %q", s)
			}
		}
		if b < a {
			return BusRange{}, fmt.Errorf("busgraph: range %q has high < low", s)
		}
		if b >= busCount {
			return BusRange{}, fmt.Errorf("busgraph: bus %d in %q exceeds busCount %d", b, s, busCount)
		}
		return BusRange{Kind: p.kind, Lo: a, Hi: b}, nil
	}
	return BusRange{}, fmt.Errorf("busgraph: unrecognized bus name %q", s)
}

func (r BusRange) Indices() []int {
	out := make([]int, 0, r.Hi-r.Lo+1)
	for i := r.Lo; i <= r.Hi; i++ {
		out = append(out, i)
	}
	return out
}

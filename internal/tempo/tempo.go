// Package tempo implements the score language's tempo map: a piecewise
// constant-acceleration mapping between score time (seconds) and beats.
package tempo

import (
	"fmt"
	"math"
)

// MaxBreakpoints mirrors the C source's TLEN cap on the number of
// (time, tempo) pairs a single tempo() call may install.
const MaxBreakpoints = 64

type breakpoint struct {
	xtime float64 // score time, seconds
	tov   float64 // tempo-over-basis: tempo(beats/min) / basis
	rx    float64 // precomputed beat position at xtime
	accel float64 // acceleration of this segment (zero for the last point, whose tempo holds beyond it)
}

// Map is a single-producer, globally reachable tempo map. The zero value is
// ready to use with the identity mapping (time_beat/beat_time both act as
// the identity until Tempo is called).
type Map struct {
	basis float64
	bps   []breakpoint
}

// New returns a Map with the default basis of 60 beats/minute.
func New() *Map {
	return &Map{basis: 60}
}

// TBase sets the reference beat unit.
func (m *Map) TBase(basis float64) {
	m.basis = basis
}

// Tempo installs a new piecewise tempo map from (time, tempo) pairs. Calling
// it with zero pairs clears the map (identity mapping resumes). Any tempo
// value of zero is rejected.
func (m *Map) Tempo(pairs ...[2]float64) error {
	if len(pairs) == 0 {
		m.bps = nil
		return nil
	}
	if len(pairs) > MaxBreakpoints {
		return fmt.Errorf("tempo: %d breakpoints exceeds max of %d", len(pairs), MaxBreakpoints)
	}

	bps := make([]breakpoint, len(pairs))
	for i, p := range pairs {
		t, tempo := p[0], p[1]
		if tempo == 0 {
			return fmt.Errorf("tempo: breakpoint %d has tempo 0", i)
		}
		bps[i] = breakpoint{xtime: t, tov: tempo / m.basis}
	}

	bps[0].rx = 0
	for i := 0; i < len(bps)-1; i++ {
		dd := bps[i+1].xtime - bps[i].xtime
		t0, t1 := bps[i].tov, bps[i+1].tov
		if dd == 0 {
			bps[i].accel = 0
		} else {
			bps[i].accel = (t1*t1 - t0*t0) / (2 * dd)
		}
		bps[i+1].rx = segmentBeat(bps[i], bps[i+1].xtime)
	}

	m.bps = bps
	return nil
}

// Clear removes the tempo map; time_beat/beat_time revert to the identity.
func (m *Map) Clear() { m.bps = nil }

// segmentBeat evaluates the beat position at x within the segment starting
// at bp, using the closed form rx + (t(x) - t0) / accel when accel != 0, or
// the constant-tempo linear form otherwise.
func segmentBeat(bp breakpoint, x float64) float64 {
	dx := x - bp.xtime
	if bp.accel == 0 {
		return bp.rx + bp.tov*dx
	}
	tx := math.Sqrt(bp.tov*bp.tov + 2*bp.accel*dx)
	return bp.rx + (tx-bp.tov)/bp.accel
}

// TimeBeat returns the beat position for score time s, seconds.
func (m *Map) TimeBeat(s float64) float64 {
	if len(m.bps) == 0 {
		return s
	}
	seg := m.segmentForTime(s)
	return segmentBeat(m.bps[seg], s)
}

// segmentForTime picks the segment holding s; at or past the last
// breakpoint it picks the last point, whose tempo stays constant.
func (m *Map) segmentForTime(s float64) int {
	for i := 0; i < len(m.bps)-1; i++ {
		if s < m.bps[i+1].xtime {
			return i
		}
	}
	return len(m.bps) - 1
}

// BeatTime inverts TimeBeat: given a beat position, returns score time.
func (m *Map) BeatTime(b float64) float64 {
	if len(m.bps) == 0 {
		return b
	}
	seg := m.segmentForBeat(b)
	bp := m.bps[seg]
	if bp.accel == 0 {
		if bp.tov == 0 {
			return bp.xtime
		}
		return bp.xtime + (b-bp.rx)/bp.tov
	}
	tx := bp.tov + bp.accel*(b-bp.rx)
	return bp.xtime + (tx*tx-bp.tov*bp.tov)/(2*bp.accel)
}

func (m *Map) segmentForBeat(b float64) int {
	for i := 0; i < len(m.bps)-1; i++ {
		if b < m.bps[i+1].rx {
			return i
		}
	}
	return len(m.bps) - 1
}

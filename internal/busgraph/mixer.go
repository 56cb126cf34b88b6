package busgraph

import "sync"

// MixData is one instrument's contribution for a single render block: an
// already-deinterleaved block of samples destined for one bus at a given
// frame offset, tagged with how it should be combined (spec.md §5's
// per-tick mixing model). Per-worker slices of MixData are the
// multithreaded analogue of the teacher's per-channel accumulation buffers.
type MixData struct {
	Bus     int
	Kind    MixDataType
	Offset  int
	Samples []float64
}

// Worker accumulates MixData entries produced by the instruments it owns
// during one render block. A Graph fans instruments out across a fixed pool
// of Workers and later drains them in a deterministic order: worker by
// worker, each in the order its contributions were staged.
type Worker struct {
	pending []MixData
}

func NewWorker() *Worker { return &Worker{} }

// Add stages one instrument's contribution, matching spec.md's
// addToBus(type, busIndex, src, offset, endFrame, chans): src is
// interleaved audio with chans channels per frame, and only channel 0 of
// each frame — src[0], src[chans], src[2*chans], ... — is summed into
// dst[offset:endFrame]. Deinterleaved immediately so the caller's src
// buffer can be reused as soon as Add returns.
func (w *Worker) Add(bus int, kind MixDataType, src []float64, offset, endFrame, chans int) {
	w.pending = append(w.pending, deinterleave(bus, kind, src, offset, endFrame, chans))
}

// deinterleave builds the MixData for one addToBus/mixToBus call, extracting
// channel 0 of each frame of src into a plain, bus-offset-relative slice.
func deinterleave(bus int, kind MixDataType, src []float64, offset, endFrame, chans int) MixData {
	if chans < 1 {
		chans = 1
	}
	n := endFrame - offset
	if n < 0 {
		n = 0
	}
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		si := i * chans
		if si >= len(src) {
			break
		}
		samples[i] = src[si]
	}
	return MixData{Bus: bus, Kind: kind, Offset: offset, Samples: samples}
}

// MixToBus applies one instrument's contribution directly to the bus
// buffers, bypassing the Worker/barrier staging RenderBlock uses — the
// single-threaded cooperative mixing path of spec.md §5, where addToBus
// "mixes directly" with no worker fan-out or suspension points. Takes the
// same interleaved-source contract as Worker.Add.
func (g *Graph) MixToBus(bus int, kind MixDataType, src []float64, offset, endFrame, chans int) {
	g.accumulate(deinterleave(bus, kind, src, offset, endFrame, chans))
}

func (w *Worker) reset() { w.pending = w.pending[:0] }

// RenderBlock runs blockFns concurrently, one goroutine per worker, each
// rendering into its own Worker's pending list, then drains every worker's
// contributions into the bus output/aux buffers in a fixed, deterministic
// order — this is the multithreaded worker pool spec.md §9's redesign note
// calls for in place of the teacher's single in-place accumulation loop.
func (g *Graph) RenderBlock(workers []*Worker, blockFns []func(w *Worker)) error {
	if len(workers) != len(blockFns) {
		panic("busgraph: RenderBlock: workers/blockFns length mismatch")
	}

	for k := range g.outBuffers {
		buf := g.outBuffers[k]
		for i := range buf {
			buf[i] = 0
		}
	}
	for k := range g.auxBuffers {
		buf := g.auxBuffers[k]
		for i := range buf {
			buf[i] = 0
		}
	}

	var wg sync.WaitGroup
	for i, w := range workers {
		w.reset()
		wg.Add(1)
		go func(w *Worker, fn func(w *Worker)) {
			defer wg.Done()
			fn(w)
		}(w, blockFns[i])
	}
	wg.Wait()

	for _, w := range workers {
		for _, md := range w.pending {
			g.accumulate(md)
		}
	}

	g.drainAuxToAux()
	g.drainAuxToOut()
	return nil
}

func (g *Graph) accumulate(md MixData) {
	var dst []float64
	switch md.Kind {
	case BusOut:
		dst = g.OutBuffer(md.Bus)
	case BusAuxOut:
		dst = g.AuxBuffer(md.Bus)
	}
	for i, s := range md.Samples {
		di := md.Offset + i
		if di < 0 || di >= len(dst) {
			continue
		}
		dst[di] += s
	}
}

// drainAuxToAux sums each aux bus's configured parent buses into it, walked
// in the topological order computed by createPlayOrder, so that a bus which
// is itself fed by other aux buses sees their fully-summed contribution
// before it is in turn summed into whatever it feeds.
func (g *Graph) drainAuxToAux() {
	for _, bus := range g.auxToAuxPlayList {
		parents := g.buses[bus].Parents
		if len(parents) == 0 {
			continue
		}
		dst := g.AuxBuffer(bus)
		for _, p := range parents {
			src := g.AuxBuffer(p)
			n := len(dst)
			if len(src) < n {
				n = len(src)
			}
			for i := 0; i < n; i++ {
				dst[i] += src[i]
			}
		}
	}
}

// drainAuxToOut adds the aux content of any bus that is simultaneously an
// output channel (OutInUse && AuxInUse share the one bus-index namespace,
// per spec.md §3.4) into that bus's output buffer.
func (g *Graph) drainAuxToOut() {
	for b := 0; b < g.busCount; b++ {
		if g.buses[b].OutInUse && g.buses[b].AuxInUse {
			out := g.OutBuffer(b)
			aux := g.AuxBuffer(b)
			n := len(out)
			if len(aux) < n {
				n = len(aux)
			}
			for i := 0; i < n; i++ {
				out[i] += aux[i]
			}
		}
	}
}

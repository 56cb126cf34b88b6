// Package engine wires the score language's value/symbol/interpreter
// layers to the bus graph, tempo map, and options store into one owned
// value (spec.md §9's "re-architect as an Engine value" design note),
// replacing the source's process-wide globals.
package engine

import (
	"io"
	"os"

	"github.com/rtcmix/rtcore/internal/busgraph"
	"github.com/rtcmix/rtcore/internal/diag"
	"github.com/rtcmix/rtcore/internal/interp"
	"github.com/rtcmix/rtcore/internal/options"
	"github.com/rtcmix/rtcore/internal/symtab"
	"github.com/rtcmix/rtcore/internal/tempo"
	"github.com/rtcmix/rtcore/internal/value"
)

// EngineError is the core's typed cancellation value, replacing
// RTExit(errCode): a fatal diagnostic aborts the current score pass by
// returning one of these up through Run rather than exiting the process.
type EngineError = diag.FatalError

// Engine owns every piece of mutable state one score evaluation needs:
// the symbol table, bus graph, tempo map, options, diagnostics channel,
// and the tree-walking evaluator bound to all of them.
type Engine struct {
	Table   *symtab.Table
	Bus     *busgraph.Graph
	Tempo   *tempo.Map
	Options *options.Options
	Diag    *diag.Logger
	Eval    *interp.Evaluator
}

// Config bundles the construction-time parameters that are fixed for an
// Engine's lifetime (spec.md's supplemented detail: busCount/block size
// are set once, mirroring the teacher's audio_s struct filled once at
// startup before the main loop).
type Config struct {
	BusCount  int
	BlockSize int
	NumChans  int       // hardware channel count (NCHANS); 0 defaults to stereo
	Diag      io.Writer // defaults to os.Stderr when nil
}

// New constructs an Engine with its component stores wired together:
// Options feeds PrintListLimit into the evaluator, Diag is shared by the
// symbol table (shadowing warnings), the value-operator Reporter, and the
// interpreter's recoverable-error path.
func New(cfg Config) *Engine {
	w := cfg.Diag
	if w == nil {
		w = os.Stderr
	}
	d := diag.New(w)
	tab := symtab.New(d)
	opts := options.Default()
	tm := tempo.New()
	bus := busgraph.New(cfg.BusCount, cfg.BlockSize, cfg.NumChans)

	ev := interp.New(tab, d)
	ev.PrintListLimit = opts.PrintListLimit

	return &Engine{
		Table:   tab,
		Bus:     bus,
		Tempo:   tm,
		Options: opts,
		Diag:    d,
		Eval:    ev,
	}
}

// Run evaluates root as one full score pass.
func (e *Engine) Run(root interp.Node) (value.Value, error) {
	return e.Eval.Run(root)
}

// SetOption applies a score-callable set_option() directive (spec.md §6).
func (e *Engine) SetOption(directive string) error {
	return e.Options.SetOption(directive)
}

// LoadRCFromHome applies $HOME/.rtcmixrc, if present, before any score runs.
func (e *Engine) LoadRCFromHome() error {
	return e.Options.LoadRCFromHome(e.Diag.Warn)
}

// BusConfig routes an instrument's input/output buses (spec.md §4.4).
func (e *Engine) BusConfig(instName string, busnames ...string) (*busgraph.BusSlot, error) {
	return e.Bus.BusConfig(instName, busnames...)
}

// BufSamps returns the configured block size in frames (spec.md §6's
// bufsamps()).
func (e *Engine) BufSamps() int { return e.Bus.BlockSize() }

// NumBuses returns the configured bus count (spec.md §6's busCount).
func (e *Engine) NumBuses() int { return e.Bus.BusCount() }

// NCHANS returns the configured hardware channel count (spec.md §6's
// NCHANS).
func (e *Engine) NCHANS() int { return e.Bus.NCHANS() }

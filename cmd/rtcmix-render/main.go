// Command rtcmix-render is a small host harness around internal/engine: it
// applies option overrides, hand-builds a toy score (no parser is part of
// this core — see internal/interp's package doc), and drives a fixed
// number of render blocks, optionally streaming the result to a live
// PortAudio output device.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/pflag"

	"github.com/rtcmix/rtcore/internal/busgraph"
	"github.com/rtcmix/rtcore/internal/engine"
	"github.com/rtcmix/rtcore/internal/interp"
)

func main() {
	var (
		busCount   = pflag.IntP("bus-count", "b", 16, "Number of buses in the routing graph.")
		blockSize  = pflag.IntP("block-size", "s", 256, "Block size in frames (bufsamps()).")
		numBlocks  = pflag.IntP("num-blocks", "n", 20, "Number of blocks to render.")
		live       = pflag.BoolP("live", "l", false, "Stream rendered blocks to the default PortAudio output device.")
		sampleRate = pflag.Float64P("sample-rate", "r", 44100, "Sample rate in Hz, used only for the live sink.")
		rcfile     = pflag.BoolP("rc", "c", true, "Apply $HOME/.rtcmixrc before rendering.")
		setOpt     = pflag.StringArrayP("set-option", "o", nil, "A set_option() directive (repeatable), e.g. -o PRINT_ON.")
	)

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rtcmix-render - drives a score against the bus graph and tempo core.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: rtcmix-render [options]\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	e := engine.New(engine.Config{BusCount: *busCount, BlockSize: *blockSize})

	if *rcfile {
		if err := e.LoadRCFromHome(); err != nil {
			fmt.Fprintf(os.Stderr, "rtcmix-render: loading .rtcmixrc: %v\n", err)
			os.Exit(1)
		}
	}
	for _, opt := range *setOpt {
		if err := e.SetOption(opt); err != nil {
			fmt.Fprintf(os.Stderr, "rtcmix-render: %v\n", err)
			os.Exit(1)
		}
	}

	if _, err := e.BusConfig("tone", "out 0"); err != nil {
		fmt.Fprintf(os.Stderr, "rtcmix-render: bus_config: %v\n", err)
		os.Exit(1)
	}

	root := interp.Store{
		Lhs:                interp.LoadSym{Name: "amp"},
		Rhs:                interp.Constf{Val: 0.2},
		AllowTypeOverwrite: true,
	}
	if _, err := e.Run(root); err != nil {
		fmt.Fprintf(os.Stderr, "rtcmix-render: score error: %v\n", err)
		os.Exit(1)
	}

	var sink outputSink = nullSink{}
	if *live {
		pa, err := newPortAudioSink(*sampleRate, *blockSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rtcmix-render: opening PortAudio sink: %v\n", err)
			os.Exit(1)
		}
		defer pa.Close()
		sink = pa
	}

	worker := busgraph.NewWorker()
	workers := []*busgraph.Worker{worker}
	phase := 0.0
	const toneHz = 440.0

	blockFn := func(w *busgraph.Worker) {
		ampVal, err := e.Run(interp.LoadSym{Name: "amp"})
		if err != nil {
			e.Diag.Warn("render: %v", err)
			return
		}
		amp := ampVal.Float()
		samples := make([]float64, e.BufSamps())
		step := toneHz / *sampleRate
		for i := range samples {
			samples[i] = amp * math.Sin(phase*2*math.Pi)
			phase += step
			if phase >= 1 {
				phase -= 1
			}
		}
		w.Add(0, busgraph.BusOut, samples, 0, len(samples), 1)
	}

	for block := 0; block < *numBlocks; block++ {
		if err := e.Bus.RenderBlock(workers, []func(w *busgraph.Worker){blockFn}); err != nil {
			fmt.Fprintf(os.Stderr, "rtcmix-render: render_block: %v\n", err)
			os.Exit(1)
		}
		if err := sink.Write(e.Bus.OutBuffer(0)); err != nil {
			fmt.Fprintf(os.Stderr, "rtcmix-render: output write: %v\n", err)
			os.Exit(1)
		}
	}
}

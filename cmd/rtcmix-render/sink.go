package main

import "github.com/gordonklaus/portaudio"

// outputSink receives one rendered block of samples (one per frame, mono)
// at a time. Writing audio out is the one external-device collaborator
// this core assumes rather than implements, so a live sink is the only
// place PortAudio appears.
type outputSink interface {
	Write(samples []float64) error
	Close() error
}

// nullSink discards rendered audio; the default when -live is not passed.
type nullSink struct{}

func (nullSink) Write([]float64) error { return nil }
func (nullSink) Close() error          { return nil }

type portAudioSink struct {
	stream *portaudio.Stream
	buf    []float32
}

func newPortAudioSink(sampleRate float64, blockSize int) (*portAudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	outDev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	buf := make([]float32, blockSize)
	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   outDev,
			Channels: 1,
			Latency:  outDev.DefaultLowOutputLatency,
		},
		SampleRate:      sampleRate,
		FramesPerBuffer: blockSize,
	}
	stream, err := portaudio.OpenStream(params, buf)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, err
	}
	return &portAudioSink{stream: stream, buf: buf}, nil
}

func (s *portAudioSink) Write(samples []float64) error {
	n := len(samples)
	if n > len(s.buf) {
		n = len(s.buf)
	}
	for i := 0; i < n; i++ {
		s.buf[i] = float32(samples[i])
	}
	for i := n; i < len(s.buf); i++ {
		s.buf[i] = 0
	}
	return s.stream.Write()
}

func (s *portAudioSink) Close() error {
	err := s.stream.Stop()
	if cerr := s.stream.Close(); cerr != nil && err == nil {
		err = cerr
	}
	portaudio.Terminate()
	return err
}

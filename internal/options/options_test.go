package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRCAppliesKnownKeys(t *testing.T) {
	o := Default()
	var warnings []string
	warn := func(format string, args ...any) { warnings = append(warnings, format) }

	data := []byte("audio: false\nbuffer_frames: 1024\ndevice: hw:0\n")
	require.NoError(t, o.LoadRC(data, warn))

	assert.False(t, o.Audio)
	assert.Equal(t, 1024, o.BufferFrames)
	assert.Equal(t, "hw:0", o.Device)
	assert.Empty(t, warnings)
}

func TestLoadRCWarnsOnUnknownKey(t *testing.T) {
	o := Default()
	var warnings []string
	warn := func(format string, args ...any) { warnings = append(warnings, format) }

	require.NoError(t, o.LoadRC([]byte("bogus_key: 1\n"), warn))
	assert.NotEmpty(t, warnings)
}

func TestSetOptionOnOff(t *testing.T) {
	o := Default()
	require.NoError(t, o.SetOption("RECORD_ON"))
	assert.True(t, o.Record)
	require.NoError(t, o.SetOption("RECORD_OFF"))
	assert.False(t, o.Record)
}

func TestSetOptionKeyValue(t *testing.T) {
	o := Default()
	require.NoError(t, o.SetOption("buffer_frames=2048"))
	assert.Equal(t, 2048, o.BufferFrames)
}

func TestFullDuplexOnDecomposes(t *testing.T) {
	o := Default()
	require.NoError(t, o.SetOption("FULL_DUPLEX_ON"))
	assert.True(t, o.Play)
	assert.True(t, o.Record)
}

func TestFullDuplexRejectedAfterRtsetparams(t *testing.T) {
	o := Default()
	o.NotifyRtsetparamsCalled()
	err := o.SetOption("FULL_DUPLEX_ON")
	assert.Error(t, err)
}

func TestRecordRejectedAfterRtsetparams(t *testing.T) {
	o := Default()
	o.NotifyRtsetparamsCalled()
	err := o.SetOption("RECORD_ON")
	assert.Error(t, err)
}

func TestUnrecognizedDirectiveErrors(t *testing.T) {
	o := Default()
	assert.Error(t, o.SetOption("NOT_A_REAL_OPTION"))
}

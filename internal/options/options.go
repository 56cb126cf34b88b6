// Package options implements the process-wide option store consulted by
// every other component (spec.md §6, component F), including .rtcmixrc
// key semantics and the score-callable set_option() override rules.
package options

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PrintLevel gates builtin output verbosity (MMP_PRINTS, etc. in spec.md §7).
type PrintLevel int

const (
	PrintSilent PrintLevel = iota
	PrintNormal
	PrintVerbose
)

// Options is the engine-wide option store. Mirrors the teacher's
// misc_config_s / audio_s global configuration structs (ported per design
// note §9 into an owned struct rather than package-level globals).
type Options struct {
	Audio          bool
	Play           bool
	Record         bool
	Clobber        bool
	Print          PrintLevel
	ReportClipping bool
	CheckPeaks     bool
	BufferFrames   int
	Device         string
	InDevice       string
	OutDevice      string
	DSOPath        string
	PrintListLimit int

	rtsetparamsCalled bool
}

// Default returns the option set a fresh engine starts with.
func Default() *Options {
	return &Options{
		Audio:          true,
		Play:           true,
		Record:         false,
		Clobber:        false,
		Print:          PrintNormal,
		ReportClipping: true,
		CheckPeaks:     false,
		BufferFrames:   4096,
		PrintListLimit: 8,
	}
}

// NotifyRtsetparamsCalled marks that audio setup has run; subsequent
// attempts to enable recording/full-duplex must be rejected per spec.md §6.
func (o *Options) NotifyRtsetparamsCalled() { o.rtsetparamsCalled = true }

// rtcmixrcFile is the on-disk shape of $HOME/.rtcmixrc. The reader itself
// (finding $HOME, opening the file) is the stated external collaborator;
// this struct and LoadRC implement the normative key semantics, which are
// in scope.
type rtcmixrcFile struct {
	Audio          *bool   `yaml:"audio"`
	Play           *bool   `yaml:"play"`
	Record         *bool   `yaml:"record"`
	Clobber        *bool   `yaml:"clobber"`
	Print          *string `yaml:"print"`
	ReportClipping *bool   `yaml:"report_clipping"`
	CheckPeaks     *bool   `yaml:"check_peaks"`
	BufferFrames   *int    `yaml:"buffer_frames"`
	Device         *string `yaml:"device"`
	InDevice       *string `yaml:"indevice"`
	OutDevice      *string `yaml:"outdevice"`
	DSOPath        *string `yaml:"dso_path"`
}

// LoadRC decodes a .rtcmixrc-shaped YAML document and applies its keys onto
// o. Unknown keys log an advisory via warn and are otherwise ignored.
func (o *Options) LoadRC(data []byte, warn func(format string, args ...any)) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("options: parsing .rtcmixrc: %w", err)
	}

	var rc rtcmixrcFile
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return fmt.Errorf("options: decoding .rtcmixrc: %w", err)
	}

	known := map[string]bool{
		"audio": true, "play": true, "record": true, "clobber": true,
		"print": true, "report_clipping": true, "check_peaks": true,
		"buffer_frames": true, "device": true, "indevice": true,
		"outdevice": true, "dso_path": true,
	}
	for k := range raw {
		if !known[k] {
			warn("unrecognized .rtcmixrc key %q", k)
		}
	}

	if rc.Audio != nil {
		o.Audio = *rc.Audio
	}
	if rc.Play != nil {
		o.Play = *rc.Play
	}
	if rc.Record != nil {
		o.Record = *rc.Record
	}
	if rc.Clobber != nil {
		o.Clobber = *rc.Clobber
	}
	if rc.Print != nil {
		o.Print = parsePrintLevel(*rc.Print)
	}
	if rc.ReportClipping != nil {
		o.ReportClipping = *rc.ReportClipping
	}
	if rc.CheckPeaks != nil {
		o.CheckPeaks = *rc.CheckPeaks
	}
	if rc.BufferFrames != nil {
		o.BufferFrames = *rc.BufferFrames
	}
	if rc.Device != nil {
		o.Device = *rc.Device
	}
	if rc.InDevice != nil {
		o.InDevice = *rc.InDevice
	}
	if rc.OutDevice != nil {
		o.OutDevice = *rc.OutDevice
	}
	if rc.DSOPath != nil {
		o.DSOPath = *rc.DSOPath
	}
	return nil
}

// LoadRCFromHome reads and applies $HOME/.rtcmixrc if present. A missing
// file is not an error.
func (o *Options) LoadRCFromHome(warn func(format string, args ...any)) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(home + "/.rtcmixrc")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return o.LoadRC(data, warn)
}

func parsePrintLevel(s string) PrintLevel {
	switch strings.ToLower(s) {
	case "silent", "0":
		return PrintSilent
	case "verbose", "2":
		return PrintVerbose
	default:
		return PrintNormal
	}
}

// SetOption applies a score-callable set_option() directive, per spec.md §6:
// "KEY_ON"/"KEY_OFF" toggles, or "key=value" assignments. FULL_DUPLEX_ON
// decomposes into (play, record) and is rejected once rtsetparams has run.
func (o *Options) SetOption(directive string) error {
	if directive == "FULL_DUPLEX_ON" {
		if o.rtsetparamsCalled {
			return fmt.Errorf("options: FULL_DUPLEX_ON rejected: rtsetparams already called")
		}
		o.Play = true
		o.Record = true
		return nil
	}
	if directive == "FULL_DUPLEX_OFF" {
		o.Record = false
		return nil
	}

	if strings.Contains(directive, "=") {
		parts := strings.SplitN(directive, "=", 2)
		return o.setKeyValue(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}

	if strings.HasSuffix(directive, "_ON") {
		return o.setKeyValue(strings.TrimSuffix(directive, "_ON"), "true")
	}
	if strings.HasSuffix(directive, "_OFF") {
		return o.setKeyValue(strings.TrimSuffix(directive, "_OFF"), "false")
	}
	return fmt.Errorf("options: unrecognized set_option directive %q", directive)
}

func (o *Options) setKeyValue(key, val string) error {
	switch strings.ToUpper(key) {
	case "AUDIO":
		o.Audio = asBool(val)
	case "PLAY":
		o.Play = asBool(val)
	case "RECORD":
		if o.rtsetparamsCalled && asBool(val) {
			return fmt.Errorf("options: RECORD_ON rejected: rtsetparams already called")
		}
		o.Record = asBool(val)
	case "CLOBBER":
		o.Clobber = asBool(val)
	case "REPORT_CLIPPING":
		o.ReportClipping = asBool(val)
	case "CHECK_PEAKS":
		o.CheckPeaks = asBool(val)
	case "PRINT":
		o.Print = parsePrintLevel(val)
	case "BUFFER_FRAMES":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("options: invalid buffer_frames %q: %w", val, err)
		}
		o.BufferFrames = n
	case "DEVICE":
		o.Device = val
	case "INDEVICE":
		o.InDevice = val
	case "OUTDEVICE":
		o.OutDevice = val
	case "DSO_PATH":
		o.DSOPath = val
	case "PRINT_LIST_LIMIT":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("options: invalid print_list_limit %q: %w", val, err)
		}
		o.PrintListLimit = n
	default:
		return fmt.Errorf("options: unrecognized option key %q", key)
	}
	return nil
}

func asBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "on", "yes":
		return true
	default:
		return false
	}
}

package ast

// ToneDef is a named auditory modality definition.
type ToneDef struct {
	Name       string
	Frequency  uint16
	DurationMs uint16
	Amplitude  uint8
	Waveform   Waveform
	Channel    uint8
	Span       Span
}

// PulseDef is a named haptic modality definition.
type PulseDef struct {
	Name       string
	Region     string
	DurationMs uint16
	Intensity  uint8
	Waveform   PulseWaveform
	Charge     uint8
	Span       Span
}

type Waveform uint8

const (
	WaveformBiphasic Waveform = iota
	WaveformSine
	WaveformSquare
)

func (w Waveform) Encode() uint8 { return uint8(w) }

type PulseWaveform uint8

const (
	PulseWaveformBiphasic PulseWaveform = iota
	PulseWaveformMonophasic
	PulseWaveformRamp
)

func (w PulseWaveform) Encode() uint8 { return uint8(w) }

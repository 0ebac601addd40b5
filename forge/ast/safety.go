package ast

// SafetyDef is a named TARA safety profile bounding element counts,
// nesting depth, bytecode size, and auditory/haptic output energy.
type SafetyDef struct {
	Name              string
	MaxElements       uint16
	MaxDepth          uint16
	MaxBytecode       uint32
	MaxChargeDensity  float32
	MaxChargePerPhase float32
	MaxFrequency      uint16
	MaxAmplitude      float32
	ShannonK          float32
	Span              Span
}

// DefaultSafetyDef returns the built-in bci_default profile applied
// when a document declares no explicit safety block.
func DefaultSafetyDef() *SafetyDef {
	return &SafetyDef{
		Name:              "bci_default",
		MaxElements:       256,
		MaxDepth:          16,
		MaxBytecode:       65536,
		MaxChargeDensity:  30.0,
		MaxChargePerPhase: 4.0,
		MaxFrequency:      2500,
		MaxAmplitude:      1.0,
		ShannonK:          1.75,
	}
}

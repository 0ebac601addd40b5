// Package tara validates a parsed Staves document against a safety
// profile's TARA (threat analysis and risk assessment) bounds, grounded
// on the original runemate-forge tara.rs: element-count and nesting
// limits per stave, tone/pulse frequency and amplitude ceilings, and the
// Shannon criterion bounding combined charge density and charge per
// phase for auditory and haptic output.
package tara

import (
	"fmt"
	"math"

	"github.com/sage-x-project/nsp-forge/forge/ast"
	"github.com/sage-x-project/nsp-forge/forge/ferrors"
)

// Validate checks a document against a safety profile, returning soft
// warnings for limits the document is approaching and an error for any
// hard violation.
func Validate(doc *ast.Document, safety *ast.SafetyDef) ([]ferrors.Warning, error) {
	var warnings []ferrors.Warning

	for _, stave := range doc.Staves {
		var count, maxDepth uint16
		countElements(stave.Body, 1, &count, &maxDepth)

		if count > safety.MaxElements {
			return nil, &ferrors.TaraViolation{
				Message: fmt.Sprintf("stave '%s' has %d elements (max %d)", stave.Name, count, safety.MaxElements),
				Span:    toFerrorsSpan(stave.Span),
			}
		}
		if maxDepth > safety.MaxDepth {
			return nil, &ferrors.TaraViolation{
				Message: fmt.Sprintf("stave '%s' nesting depth %d exceeds max %d", stave.Name, maxDepth, safety.MaxDepth),
				Span:    toFerrorsSpan(stave.Span),
			}
		}

		if count > safety.MaxElements*4/5 {
			span := toFerrorsSpan(stave.Span)
			warnings = append(warnings, ferrors.Warning{
				Message: fmt.Sprintf("stave '%s' has %d elements (%.0f%% of max %d)", stave.Name, count,
					float64(count)/float64(safety.MaxElements)*100.0, safety.MaxElements),
				Span: &span,
				Kind: ferrors.WarningTaraLimit,
			})
		}

	}

	for _, tone := range doc.Tones {
		w, err := validateTone(tone, safety)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, w...)
	}

	for _, pulse := range doc.Pulses {
		w, err := validatePulse(pulse, safety)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, w...)
	}

	return warnings, nil
}

func countElements(elements []ast.Element, depth uint16, count, maxDepth *uint16) {
	if depth > *maxDepth {
		*maxDepth = depth
	}
	for _, el := range elements {
		*count++
		if c, ok := el.(*ast.Container); ok {
			countElements(c.Children, depth+1, count, maxDepth)
		}
	}
}

func validateTone(tone *ast.ToneDef, safety *ast.SafetyDef) ([]ferrors.Warning, error) {
	var warnings []ferrors.Warning
	span := toFerrorsSpan(tone.Span)

	if tone.Frequency > safety.MaxFrequency {
		return nil, &ferrors.TaraViolation{
			Message: fmt.Sprintf("tone '%s' frequency %dHz exceeds max %dHz", tone.Name, tone.Frequency, safety.MaxFrequency),
			Span:    span,
		}
	}

	amplitudeF := float32(tone.Amplitude) / 255.0
	if amplitudeF > safety.MaxAmplitude {
		return nil, &ferrors.TaraViolation{
			Message: fmt.Sprintf("tone '%s' amplitude %.2f exceeds max %.2f", tone.Name, amplitudeF, safety.MaxAmplitude),
			Span:    span,
		}
	}

	chargeDensity := amplitudeF * safety.MaxChargeDensity
	chargePerPhase := amplitudeF * safety.MaxChargePerPhase
	if chargeDensity > 0 && chargePerPhase > 0 {
		k := math.Log10(float64(chargeDensity)) + math.Log10(float64(chargePerPhase))
		if k >= float64(safety.ShannonK) {
			return nil, &ferrors.TaraViolation{
				Message: fmt.Sprintf("tone '%s' Shannon k=%.2f exceeds limit %.2f (D=%.1f, Q=%.1f)",
					tone.Name, k, safety.ShannonK, chargeDensity, chargePerPhase),
				Span: span,
			}
		}
	}

	if tone.Frequency > safety.MaxFrequency*4/5 {
		warnings = append(warnings, ferrors.Warning{
			Message: fmt.Sprintf("tone '%s' frequency %dHz is %.0f%% of max %dHz", tone.Name, tone.Frequency,
				float64(tone.Frequency)/float64(safety.MaxFrequency)*100.0, safety.MaxFrequency),
			Span: &span,
			Kind: ferrors.WarningTaraLimit,
		})
	}

	return warnings, nil
}

func validatePulse(pulse *ast.PulseDef, safety *ast.SafetyDef) ([]ferrors.Warning, error) {
	span := toFerrorsSpan(pulse.Span)

	chargeDensity := float32(pulse.Charge) / 255.0 * 30.0
	if chargeDensity > safety.MaxChargeDensity {
		return nil, &ferrors.TaraViolation{
			Message: fmt.Sprintf("pulse '%s' charge density %.1f uC/cm^2 exceeds max %.1f", pulse.Name, chargeDensity, safety.MaxChargeDensity),
			Span:    span,
		}
	}

	intensityF := float32(pulse.Intensity) / 255.0
	if intensityF > safety.MaxAmplitude {
		return nil, &ferrors.TaraViolation{
			Message: fmt.Sprintf("pulse '%s' intensity %.2f exceeds max amplitude %.2f", pulse.Name, intensityF, safety.MaxAmplitude),
			Span:    span,
		}
	}

	chargePerPhase := intensityF * safety.MaxChargePerPhase
	if chargeDensity > 0 && chargePerPhase > 0 {
		k := math.Log10(float64(chargeDensity)) + math.Log10(float64(chargePerPhase))
		if k >= float64(safety.ShannonK) {
			return nil, &ferrors.TaraViolation{
				Message: fmt.Sprintf("pulse '%s' Shannon k=%.2f exceeds limit %.2f", pulse.Name, k, safety.ShannonK),
				Span:    span,
			}
		}
	}

	return nil, nil
}

// ValidateBytecodeSize checks that the final emitted bytecode fits the
// safety profile's byte budget.
func ValidateBytecodeSize(size int, safety *ast.SafetyDef) error {
	if size > int(safety.MaxBytecode) {
		return &ferrors.TaraSimple{Message: fmt.Sprintf("bytecode size %d bytes exceeds max %d bytes", size, safety.MaxBytecode)}
	}
	return nil
}

func toFerrorsSpan(s ast.Span) ferrors.Span {
	return ferrors.NewSpan(s.Line, s.Col)
}

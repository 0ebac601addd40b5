// Package forge compiles Staves DSL source into Staves v1.0 bytecode,
// grounded on the original runemate-forge lib.rs pipeline: a size
// check, lex, parse, TARA validation, codegen, and a final TARA
// bytecode-size check.
package forge

import (
	"fmt"
	"time"

	"github.com/sage-x-project/nsp-forge/forge/ast"
	"github.com/sage-x-project/nsp-forge/forge/codegen"
	"github.com/sage-x-project/nsp-forge/forge/ferrors"
	"github.com/sage-x-project/nsp-forge/forge/lexer"
	"github.com/sage-x-project/nsp-forge/forge/parser"
	"github.com/sage-x-project/nsp-forge/forge/tara"
	"github.com/sage-x-project/nsp-forge/internal/metrics"
)

// MaxInputBytes bounds Staves source size per the threat model's input
// size limit.
const MaxInputBytes = 1_048_576

// CompileResult is the successful output of Compile.
type CompileResult struct {
	Bytecode   []byte
	Warnings   []ferrors.Warning
	StaveNames []string
}

// Compile runs the full pipeline from Staves DSL source to bytecode.
func Compile(source string) (*CompileResult, error) {
	start := time.Now()
	defer func() { metrics.CompileDuration.Observe(time.Since(start).Seconds()) }()

	if len(source) > MaxInputBytes {
		metrics.CompilesTotal.WithLabelValues("parse_error").Inc()
		metrics.GlobalCollector.RecordCompile(false, false, time.Since(start))
		return nil, &ferrors.ParseError{
			Message: fmt.Sprintf("input too large: %d bytes (max %d)", len(source), MaxInputBytes),
		}
	}

	tokens, err := lexer.Lex(source)
	if err != nil {
		metrics.CompilesTotal.WithLabelValues("parse_error").Inc()
		metrics.GlobalCollector.RecordCompile(false, false, time.Since(start))
		return nil, err
	}

	doc, err := parser.Parse(tokens)
	if err != nil {
		metrics.CompilesTotal.WithLabelValues("parse_error").Inc()
		metrics.GlobalCollector.RecordCompile(false, false, time.Since(start))
		return nil, err
	}

	safety := doc.Safety
	if safety == nil {
		safety = ast.DefaultSafetyDef()
	}
	warnings, err := tara.Validate(doc, safety)
	if err != nil {
		metrics.CompilesTotal.WithLabelValues("tara_violation").Inc()
		metrics.TaraViolationsTotal.WithLabelValues("element_or_tone_limit").Inc()
		metrics.GlobalCollector.RecordCompile(false, true, time.Since(start))
		return nil, err
	}

	bytecode, err := codegen.Emit(doc)
	if err != nil {
		metrics.CompilesTotal.WithLabelValues("codegen_error").Inc()
		metrics.GlobalCollector.RecordCompile(false, false, time.Since(start))
		return nil, err
	}

	if err := tara.ValidateBytecodeSize(len(bytecode), safety); err != nil {
		metrics.CompilesTotal.WithLabelValues("tara_violation").Inc()
		metrics.TaraViolationsTotal.WithLabelValues("max_bytecode").Inc()
		metrics.GlobalCollector.RecordCompile(false, true, time.Since(start))
		return nil, err
	}

	staveNames := make([]string, len(doc.Staves))
	for i, stave := range doc.Staves {
		staveNames[i] = stave.Name
	}

	metrics.CompilesTotal.WithLabelValues("success").Inc()
	metrics.BytecodeSize.Observe(float64(len(bytecode)))
	metrics.GlobalCollector.RecordCompile(true, false, time.Since(start))
	return &CompileResult{
		Bytecode:   bytecode,
		Warnings:   warnings,
		StaveNames: staveNames,
	}, nil
}

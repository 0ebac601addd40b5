package disasm

import (
	"strings"
	"testing"

	"github.com/sage-x-project/nsp-forge/forge/ast"
	"github.com/sage-x-project/nsp-forge/forge/codegen"
)

func TestDisasmRoundtrip(t *testing.T) {
	doc := &ast.Document{
		Staves: []*ast.Stave{{
			Name: "test",
			Body: []ast.Element{&ast.Leaf{Kind: ast.Text{Value: "hello world"}}},
		}},
	}
	bytecode, err := codegen.Emit(doc)
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}
	output, err := Disassemble(bytecode)
	if err != nil {
		t.Fatalf("disassemble error: %v", err)
	}
	if !strings.Contains(output, "Staves v1.0") {
		t.Error("output missing version header")
	}
	if !strings.Contains(output, "hello world") {
		t.Error("output missing text content")
	}
	if !strings.Contains(output, `STAVE "test"`) {
		t.Error("output missing stave name")
	}
}

func TestDisasmRejectsShortBytecode(t *testing.T) {
	if _, err := Disassemble([]byte{0x53, 0x54, 0x56, 0x31}); err == nil {
		t.Fatal("expected error for bytecode shorter than the minimum header")
	}
}

func TestDisasmRejectsBadMagic(t *testing.T) {
	bad := make([]byte, 30)
	copy(bad, "NOPE")
	if _, err := Disassemble(bad); err == nil {
		t.Fatal("expected error for invalid magic bytes")
	}
}

func TestDisasmShowsToneTable(t *testing.T) {
	doc := &ast.Document{
		Tones: []*ast.ToneDef{{Name: "notify", Frequency: 440, DurationMs: 250, Amplitude: 200, Waveform: ast.WaveformSine}},
		Staves: []*ast.Stave{{
			Name: "s",
			Body: []ast.Element{&ast.ToneRef{Name: "notify"}},
		}},
	}
	bytecode, err := codegen.Emit(doc)
	if err != nil {
		t.Fatalf("emit error: %v", err)
	}
	output, err := Disassemble(bytecode)
	if err != nil {
		t.Fatalf("disassemble error: %v", err)
	}
	if !strings.Contains(output, "TONE freq=440Hz") {
		t.Errorf("output missing tone entry: %s", output)
	}
	if !strings.Contains(output, "TONE_REF") {
		t.Errorf("output missing tone ref: %s", output)
	}
}

package codegen

import (
	"encoding/binary"
	"testing"

	"github.com/sage-x-project/nsp-forge/forge/ast"
)

func minimalDoc() *ast.Document {
	return &ast.Document{
		Staves: []*ast.Stave{{
			Name: "test",
			Body: []ast.Element{&ast.Leaf{Kind: ast.Text{Value: "hello"}}},
		}},
	}
}

func TestEmitMagic(t *testing.T) {
	bytecode, err := Emit(minimalDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(bytecode[0:4]) != "STV1" {
		t.Fatalf("magic = %q", bytecode[0:4])
	}
	if bytecode[4] != 0x01 || bytecode[5] != 0x00 {
		t.Fatalf("version = %v", bytecode[4:6])
	}
}

func TestEmitNonempty(t *testing.T) {
	bytecode, err := Emit(minimalDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bytecode) <= preambleSize+headerSize {
		t.Fatalf("bytecode too short: %d bytes", len(bytecode))
	}
}

func TestEmitTotalSizeConsistent(t *testing.T) {
	bytecode, err := Emit(minimalDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	totalSizeOffset := preambleSize + 1 + 12 + 2
	totalSize := binary.LittleEndian.Uint32(bytecode[totalSizeOffset : totalSizeOffset+4])
	if int(totalSize) != len(bytecode) {
		t.Errorf("total_size header field = %d, bytecode len = %d", totalSize, len(bytecode))
	}
}

func TestStringDedup(t *testing.T) {
	st := newStringTable()
	a, err := st.intern("hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := st.intern("hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("a=%d b=%d, want equal", a, b)
	}
	if len(st.strings) != 1 {
		t.Errorf("strings len = %d, want 1", len(st.strings))
	}
}

func TestEmitEmptyDoc(t *testing.T) {
	bytecode, err := Emit(&ast.Document{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(bytecode[0:4]) != "STV1" {
		t.Fatalf("magic = %q", bytecode[0:4])
	}
}

func TestEmitStyleDedup(t *testing.T) {
	doc := &ast.Document{
		Styles: []*ast.StyleDef{
			{Name: "a", Properties: []ast.StyleProperty{ast.WidthProp{Value: ast.ValuePx(200)}}},
			{Name: "b", Properties: []ast.StyleProperty{ast.WidthProp{Value: ast.ValuePx(200)}}},
		},
	}
	bytecode, err := Emit(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	styleTableOffset := binary.LittleEndian.Uint32(bytecode[11:15])
	styleCount := binary.LittleEndian.Uint16(bytecode[styleTableOffset : styleTableOffset+2])
	if styleCount != 1 {
		t.Errorf("style table entries = %d, want 1 (deduplicated)", styleCount)
	}
}

func TestEmitUnknownStyleReference(t *testing.T) {
	style := "missing"
	doc := &ast.Document{
		Staves: []*ast.Stave{{
			Name: "s",
			Body: []ast.Element{&ast.Container{Kind: ast.ContainerColumn, Attrs: ast.Attrs{Style: &style}}},
		}},
	}
	if _, err := Emit(doc); err == nil {
		t.Fatal("expected an error referencing an undefined style")
	}
}

func TestEmitToneRef(t *testing.T) {
	doc := &ast.Document{
		Tones: []*ast.ToneDef{{Name: "notify", Frequency: 440, DurationMs: 250, Amplitude: 200, Waveform: ast.WaveformSine}},
		Staves: []*ast.Stave{{
			Name: "s",
			Body: []ast.Element{&ast.ToneRef{Name: "notify"}},
		}},
	}
	bytecode, err := Emit(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bytecode) <= preambleSize+headerSize {
		t.Fatal("expected nonempty node stream")
	}
}

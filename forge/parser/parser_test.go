package parser

import (
	"testing"

	"github.com/sage-x-project/nsp-forge/forge/ast"
	"github.com/sage-x-project/nsp-forge/forge/lexer"
)

func mustParse(t *testing.T, src string) *ast.Document {
	t.Helper()
	toks, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	doc, err := Parse(toks)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc
}

func TestParseMinimalStave(t *testing.T) {
	doc := mustParse(t, `stave dashboard { text "hello" }`)
	if len(doc.Staves) != 1 {
		t.Fatalf("staves = %d", len(doc.Staves))
	}
	st := doc.Staves[0]
	if st.Name != "dashboard" {
		t.Errorf("name = %q", st.Name)
	}
	if len(st.Body) != 1 {
		t.Fatalf("body len = %d", len(st.Body))
	}
	leaf, ok := st.Body[0].(*ast.Leaf)
	if !ok {
		t.Fatalf("body[0] type = %T", st.Body[0])
	}
	text, ok := leaf.Kind.(ast.Text)
	if !ok || text.Value != "hello" {
		t.Errorf("leaf kind = %#v", leaf.Kind)
	}
}

func TestParseStyleBlock(t *testing.T) {
	doc := mustParse(t, `style card { width: 200px background: #1a1a2e padding-top: 16px }`)
	if len(doc.Styles) != 1 {
		t.Fatalf("styles = %d", len(doc.Styles))
	}
	s := doc.Styles[0]
	if s.Name != "card" {
		t.Errorf("name = %q", s.Name)
	}
	if len(s.Properties) != 3 {
		t.Fatalf("properties = %d", len(s.Properties))
	}
	width, ok := s.Properties[0].(ast.WidthProp)
	if !ok || width.Value.Unit != ast.UnitPx || width.Value.Raw != 200 {
		t.Errorf("width prop = %#v", s.Properties[0])
	}
	bg, ok := s.Properties[1].(ast.BackgroundProp)
	if !ok || bg.Value != (ast.Color{R: 0x1a, G: 0x1a, B: 0x2e, A: 255}) {
		t.Errorf("background prop = %#v", s.Properties[1])
	}
}

func TestParseToneBlock(t *testing.T) {
	doc := mustParse(t, `tone notify { frequency: 440hz duration: 250ms amplitude: 0.8 waveform: sine channel: 0 }`)
	if len(doc.Tones) != 1 {
		t.Fatalf("tones = %d", len(doc.Tones))
	}
	tn := doc.Tones[0]
	if tn.Name != "notify" || tn.Frequency != 440 || tn.DurationMs != 250 {
		t.Errorf("tone = %#v", tn)
	}
	if tn.Amplitude != 204 {
		t.Errorf("amplitude = %d", tn.Amplitude)
	}
	if tn.Waveform != ast.WaveformSine {
		t.Errorf("waveform = %v", tn.Waveform)
	}
}

func TestParseFullDashboard(t *testing.T) {
	src := `
stave dashboard {
	column(style: dark_card) {
		heading(1) "Neural Status"
		separator
		row {
			metric "Heart Rate" "72 bpm"
		}
		button(action: "calibrate") "Re-calibrate"
		tone notify
	}
}
`
	doc := mustParse(t, src)
	if len(doc.Staves) != 1 {
		t.Fatalf("staves = %d", len(doc.Staves))
	}
	st := doc.Staves[0]
	if len(st.Body) != 1 {
		t.Fatalf("body len = %d", len(st.Body))
	}
	col, ok := st.Body[0].(*ast.Container)
	if !ok || col.Kind != ast.ContainerColumn {
		t.Fatalf("body[0] = %#v", st.Body[0])
	}
	if col.Attrs.Style == nil || *col.Attrs.Style != "dark_card" {
		t.Fatalf("style attr = %#v", col.Attrs.Style)
	}
	if len(col.Children) != 5 {
		t.Fatalf("children = %d", len(col.Children))
	}
	heading, ok := col.Children[0].(*ast.Leaf)
	if !ok {
		t.Fatalf("children[0] = %#v", col.Children[0])
	}
	h, ok := heading.Kind.(ast.Heading)
	if !ok || h.Level != 1 || h.Text != "Neural Status" {
		t.Errorf("heading = %#v", heading.Kind)
	}
	if _, ok := col.Children[1].(*ast.Leaf); !ok {
		t.Errorf("children[1] type = %T", col.Children[1])
	}
	row, ok := col.Children[2].(*ast.Container)
	if !ok || row.Kind != ast.ContainerRow {
		t.Fatalf("children[2] = %#v", col.Children[2])
	}
	metricLeaf := row.Children[0].(*ast.Leaf)
	metric, ok := metricLeaf.Kind.(ast.Metric)
	if !ok || metric.Label != "Heart Rate" || metric.MetricValue != "72 bpm" {
		t.Errorf("metric = %#v", metricLeaf.Kind)
	}
	btnLeaf := col.Children[3].(*ast.Leaf)
	btn, ok := btnLeaf.Kind.(ast.Button)
	if !ok || btn.Action != "calibrate" || btn.Label != "Re-calibrate" {
		t.Errorf("button = %#v", btnLeaf.Kind)
	}
	toneRef, ok := col.Children[4].(*ast.ToneRef)
	if !ok || toneRef.Name != "notify" {
		t.Errorf("tone ref = %#v", col.Children[4])
	}
}

func TestParseSafetyBlock(t *testing.T) {
	src := `safety bci_default {
		max-elements: 256
		max-depth: 16
		max-bytecode: 65536
		max-charge-density: 30.0
		max-charge-per-phase: 4.0
		max-frequency: 2500
		max-amplitude: 1.0
		shannon-k: 1.75
	}`
	doc := mustParse(t, src)
	if doc.Safety == nil {
		t.Fatal("no safety def parsed")
	}
	want := ast.DefaultSafetyDef()
	got := doc.Safety
	if got.Name != want.Name || got.MaxElements != want.MaxElements || got.MaxDepth != want.MaxDepth ||
		got.MaxBytecode != want.MaxBytecode || got.MaxChargeDensity != want.MaxChargeDensity ||
		got.MaxChargePerPhase != want.MaxChargePerPhase || got.MaxFrequency != want.MaxFrequency ||
		got.MaxAmplitude != want.MaxAmplitude || got.ShannonK != want.ShannonK {
		t.Errorf("safety def = %#v, want %#v", got, want)
	}
}

func TestParseHeadingLevelClamp(t *testing.T) {
	doc := mustParse(t, `stave s { heading(9) "Too Deep" }`)
	leaf := doc.Staves[0].Body[0].(*ast.Leaf)
	h := leaf.Kind.(ast.Heading)
	if h.Level != 6 {
		t.Errorf("level = %d, want clamped to 6", h.Level)
	}
}

func TestParseRejectsUnknownElement(t *testing.T) {
	toks, err := lexer.Lex(`stave s { style x { } }`)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, err := Parse(toks); err == nil {
		t.Fatal("expected parse error for style nested in stave body")
	}
}

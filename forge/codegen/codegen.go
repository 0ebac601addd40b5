// Package codegen emits Staves v1.0 bytecode from a parsed document,
// grounded on the original runemate-forge codegen.rs: a deduplicating
// string table, a deduplicating style table, a tone/pulse table, and a
// node opcode stream, assembled behind a 19-byte header following a
// 6-byte "STV1"+version preamble.
package codegen

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/sage-x-project/nsp-forge/forge/ast"
	"github.com/sage-x-project/nsp-forge/forge/ferrors"
)

var magic = [4]byte{0x53, 0x54, 0x56, 0x31}
var version = [2]byte{0x01, 0x00}

const (
	headerSize   = 19
	preambleSize = 6
)

const (
	opElementOpen  = 0x01
	opElementClose = 0x02
	opText         = 0x03
	opStyleRef     = 0x04
	opAttrKey      = 0x05
	opAttrVal      = 0x06
	opStaveStart   = 0x07
	opStaveEnd     = 0x08
	opSeparator    = 0x09
	opToneRef      = 0x20
	opPulseRef     = 0x30
)

const (
	maxStringTableBytes = 1_048_576
	maxStyleDefs        = 1024
	maxTonePulseDefs    = 256
)

// stringTable interns strings, returning a 2-byte index.
type stringTable struct {
	strings    []string
	index      map[string]uint16
	totalBytes int
}

func newStringTable() *stringTable {
	return &stringTable{index: make(map[string]uint16)}
}

func (t *stringTable) intern(s string) (uint16, error) {
	if idx, ok := t.index[s]; ok {
		return idx, nil
	}
	if len(t.strings) >= 65535 {
		return 0, &ferrors.CodegenError{Message: "string table overflow (max 65535 entries)"}
	}
	if len(s) > 65535 {
		return 0, &ferrors.CodegenError{Message: fmt.Sprintf("string too long: %d bytes (max 65535)", len(s))}
	}
	if t.totalBytes+len(s) > maxStringTableBytes {
		return 0, &ferrors.CodegenError{Message: fmt.Sprintf("string table byte budget exceeded (max %d bytes)", maxStringTableBytes)}
	}
	idx := uint16(len(t.strings))
	t.totalBytes += len(s)
	t.strings = append(t.strings, s)
	t.index[s] = idx
	return idx, nil
}

func (t *stringTable) encode() []byte {
	out := make([]byte, 0, 2+t.totalBytes+2*len(t.strings))
	out = appendU16(out, uint16(len(t.strings)))
	for _, s := range t.strings {
		out = appendU16(out, uint16(len(s)))
		out = append(out, s...)
	}
	return out
}

// styleTableEncoder encodes styles, deduplicating identical style sets.
type styleTableEncoder struct {
	entries [][]byte
	dedup   map[string]uint16
}

func newStyleTableEncoder() *styleTableEncoder {
	return &styleTableEncoder{dedup: make(map[string]uint16)}
}

func (e *styleTableEncoder) add(style *ast.StyleDef, strings *stringTable) (uint16, error) {
	encoded, err := encodeStyleSet(style.Properties, strings)
	if err != nil {
		return 0, err
	}
	key := string(encoded)
	if idx, ok := e.dedup[key]; ok {
		return idx, nil
	}
	if len(e.entries) >= maxStyleDefs {
		return 0, &ferrors.CodegenError{Message: fmt.Sprintf("style table overflow (max %d definitions)", maxStyleDefs)}
	}
	idx := uint16(len(e.entries))
	e.dedup[key] = idx
	e.entries = append(e.entries, encoded)
	return idx, nil
}

func (e *styleTableEncoder) encode() []byte {
	var out []byte
	out = appendU16(out, uint16(len(e.entries)))
	for _, entry := range e.entries {
		out = append(out, entry...)
	}
	return out
}

func encodeStyleSet(props []ast.StyleProperty, strings *stringTable) ([]byte, error) {
	if len(props) > 255 {
		return nil, &ferrors.CodegenError{Message: "style has too many properties (max 255)"}
	}
	out := make([]byte, 0, 1+5*len(props))
	out = append(out, byte(len(props)))
	for _, prop := range props {
		out = append(out, prop.ID())
		switch p := prop.(type) {
		case ast.WidthProp:
			out = appendValue(out, p.Value)
		case ast.HeightProp:
			out = appendValue(out, p.Value)
		case ast.MarginTopProp:
			out = appendValue(out, p.Value)
		case ast.MarginRightProp:
			out = appendValue(out, p.Value)
		case ast.MarginBottomProp:
			out = appendValue(out, p.Value)
		case ast.MarginLeftProp:
			out = appendValue(out, p.Value)
		case ast.PaddingTopProp:
			out = appendValue(out, p.Value)
		case ast.PaddingRightProp:
			out = appendValue(out, p.Value)
		case ast.PaddingBottomProp:
			out = appendValue(out, p.Value)
		case ast.PaddingLeftProp:
			out = appendValue(out, p.Value)
		case ast.TopProp:
			out = appendValue(out, p.Value)
		case ast.RightProp:
			out = appendValue(out, p.Value)
		case ast.BottomProp:
			out = appendValue(out, p.Value)
		case ast.LeftProp:
			out = appendValue(out, p.Value)
		case ast.BorderRadiusProp:
			out = appendValue(out, p.Value)
		case ast.GapProp:
			out = appendValue(out, p.Value)
		case ast.MaxWidthProp:
			out = appendValue(out, p.Value)
		case ast.MinWidthProp:
			out = appendValue(out, p.Value)
		case ast.MaxHeightProp:
			out = appendValue(out, p.Value)
		case ast.MinHeightProp:
			out = appendValue(out, p.Value)
		case ast.BackgroundProp:
			enc := p.Value.Encode()
			out = append(out, enc[:]...)
		case ast.TextColorProp:
			enc := p.Value.Encode()
			out = append(out, enc[:]...)
		case ast.BorderColorProp:
			enc := p.Value.Encode()
			out = append(out, enc[:]...)
		case ast.DirectionProp:
			out = append(out, p.Value.Encode())
		case ast.JustifyProp:
			out = append(out, p.Value.Encode())
		case ast.AlignProp:
			out = append(out, p.Value.Encode())
		case ast.DisplayProp:
			out = append(out, p.Value.Encode())
		case ast.PositionProp:
			out = append(out, p.Value.Encode())
		case ast.OverflowProp:
			out = append(out, p.Value.Encode())
		case ast.TextAlignProp:
			out = append(out, p.Value.Encode())
		case ast.WrapProp:
			out = append(out, p.Value.Encode())
		case ast.VisibilityProp:
			out = append(out, p.Value.Encode())
		case ast.FontSizeProp:
			out = append(out, p.Value)
		case ast.OpacityProp:
			out = append(out, p.Value)
		case ast.GrowProp:
			out = append(out, p.Value)
		case ast.ShrinkProp:
			out = append(out, p.Value)
		case ast.BorderWidthProp:
			out = append(out, p.Value)
		case ast.FontWeightProp:
			out = appendU16(out, p.Value)
		case ast.ZIndexProp:
			out = appendU16(out, uint16(p.Value))
		case ast.FontFamilyProp:
			idx, err := strings.intern(p.Value)
			if err != nil {
				return nil, err
			}
			out = appendU16(out, idx)
		default:
			return nil, &ferrors.CodegenError{Message: fmt.Sprintf("unhandled style property type %T", prop)}
		}
	}
	return out, nil
}

func appendValue(out []byte, v ast.Value) []byte {
	enc := v.Encode()
	return append(out, enc[:]...)
}

func appendU16(out []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(out, b[:]...)
}

func appendU32(out []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(out, b[:]...)
}

func encodeTonePulseTable(doc *ast.Document, strings *stringTable, toneNames, pulseNames map[string]uint16) ([]byte, error) {
	total := len(doc.Tones) + len(doc.Pulses)
	if total > maxTonePulseDefs {
		return nil, &ferrors.CodegenError{Message: fmt.Sprintf("tone/pulse table overflow (max %d)", maxTonePulseDefs)}
	}
	out := appendU16(nil, uint16(total))

	tonesSorted := append([]*ast.ToneDef(nil), doc.Tones...)
	sort.SliceStable(tonesSorted, func(i, j int) bool {
		return toneNames[tonesSorted[i].Name] < toneNames[tonesSorted[j].Name]
	})
	for _, tone := range tonesSorted {
		out = append(out, 0x01)
		out = appendU16(out, tone.Frequency)
		out = appendU16(out, tone.DurationMs)
		out = append(out, tone.Amplitude)
		out = append(out, tone.Waveform.Encode())
		out = append(out, tone.Channel)
		out = append(out, 0x00)
	}

	pulsesSorted := append([]*ast.PulseDef(nil), doc.Pulses...)
	sort.SliceStable(pulsesSorted, func(i, j int) bool {
		return pulseNames[pulsesSorted[i].Name] < pulseNames[pulsesSorted[j].Name]
	})
	for _, pulse := range pulsesSorted {
		out = append(out, 0x02)
		regionIdx, err := strings.intern(pulse.Region)
		if err != nil {
			return nil, err
		}
		out = appendU16(out, regionIdx)
		out = appendU16(out, pulse.DurationMs)
		out = append(out, pulse.Intensity)
		out = append(out, pulse.Waveform.Encode())
		out = append(out, pulse.Charge)
		out = append(out, 0x00)
	}

	return out, nil
}

// Emit produces Staves v1.0 bytecode for a parsed document.
func Emit(doc *ast.Document) ([]byte, error) {
	strings := newStringTable()
	styles := newStyleTableEncoder()
	var nodeStream []byte
	var nodeCount uint16

	styleNames := make(map[string]uint16)
	for _, styleDef := range doc.Styles {
		idx, err := styles.add(styleDef, strings)
		if err != nil {
			return nil, err
		}
		styleNames[styleDef.Name] = idx
	}

	toneNames := make(map[string]uint16)
	for i, tone := range doc.Tones {
		toneNames[tone.Name] = uint16(i)
	}
	pulseNames := make(map[string]uint16)
	toneCount := uint16(len(doc.Tones))
	for i, pulse := range doc.Pulses {
		pulseNames[pulse.Name] = toneCount + uint16(i)
	}

	incr := func() error {
		if nodeCount == 65535 {
			return &ferrors.CodegenError{Message: "node count overflow"}
		}
		nodeCount++
		return nil
	}

	for _, stave := range doc.Staves {
		nameIdx, err := strings.intern(stave.Name)
		if err != nil {
			return nil, err
		}
		nodeStream = append(nodeStream, opStaveStart)
		nodeStream = appendU16(nodeStream, nameIdx)
		if err := incr(); err != nil {
			return nil, err
		}

		if err := emitElements(stave.Body, &nodeStream, &nodeCount, strings, styleNames, toneNames, pulseNames); err != nil {
			return nil, err
		}

		nodeStream = append(nodeStream, opStaveEnd)
		if err := incr(); err != nil {
			return nil, err
		}
	}

	stringTableBytes := strings.encode()
	styleTableBytes := styles.encode()
	tonePulseTableBytes, err := encodeTonePulseTable(doc, strings, toneNames, pulseNames)
	if err != nil {
		return nil, err
	}

	nodeStreamStart := preambleSize + headerSize
	stringTableOffset := nodeStreamStart + len(nodeStream)
	styleTableOffset := stringTableOffset + len(stringTableBytes)
	toneTableOffset := styleTableOffset + len(styleTableBytes)
	totalSize := toneTableOffset + len(tonePulseTableBytes)

	out := make([]byte, 0, totalSize)
	out = append(out, magic[:]...)
	out = append(out, version[:]...)

	var flags byte
	if len(doc.Styles) > 0 {
		flags |= 0x01
	}
	if len(doc.Tones) > 0 || len(doc.Pulses) > 0 {
		flags |= 0x02
	}
	out = append(out, flags)
	out = appendU32(out, uint32(stringTableOffset))
	out = appendU32(out, uint32(styleTableOffset))
	out = appendU32(out, uint32(toneTableOffset))
	out = appendU16(out, nodeCount)
	out = appendU32(out, uint32(totalSize))

	out = append(out, nodeStream...)
	out = append(out, stringTableBytes...)
	out = append(out, styleTableBytes...)
	out = append(out, tonePulseTableBytes...)

	return out, nil
}

func emitElements(
	elements []ast.Element,
	stream *[]byte,
	count *uint16,
	strings *stringTable,
	styleNames, toneNames, pulseNames map[string]uint16,
) error {
	incr := func() error {
		if *count == 65535 {
			return &ferrors.CodegenError{Message: "node count overflow"}
		}
		*count++
		return nil
	}

	for _, el := range elements {
		switch e := el.(type) {
		case *ast.Container:
			*stream = append(*stream, opElementOpen, e.Kind.TagByte())
			if err := incr(); err != nil {
				return err
			}
			if err := emitAttrs(e.Attrs, stream, count, strings, styleNames); err != nil {
				return err
			}
			if err := emitElements(e.Children, stream, count, strings, styleNames, toneNames, pulseNames); err != nil {
				return err
			}
			*stream = append(*stream, opElementClose)
			if err := incr(); err != nil {
				return err
			}
		case *ast.Leaf:
			if _, ok := e.Kind.(ast.Separator); ok {
				*stream = append(*stream, opSeparator)
				if err := incr(); err != nil {
					return err
				}
				continue
			}
			*stream = append(*stream, opElementOpen, e.Kind.TagByte())
			if err := incr(); err != nil {
				return err
			}
			if err := emitAttrs(e.Attrs, stream, count, strings, styleNames); err != nil {
				return err
			}
			if err := emitLeafContent(e.Kind, stream, count, strings); err != nil {
				return err
			}
			*stream = append(*stream, opElementClose)
			if err := incr(); err != nil {
				return err
			}
		case *ast.ToneRef:
			idx, ok := toneNames[e.Name]
			if !ok {
				return &ferrors.CodegenError{Message: fmt.Sprintf("unknown tone: '%s'", e.Name)}
			}
			*stream = append(*stream, opToneRef)
			*stream = appendU16(*stream, idx)
			if err := incr(); err != nil {
				return err
			}
		case *ast.PulseRef:
			idx, ok := pulseNames[e.Name]
			if !ok {
				return &ferrors.CodegenError{Message: fmt.Sprintf("unknown pulse: '%s'", e.Name)}
			}
			*stream = append(*stream, opPulseRef)
			*stream = appendU16(*stream, idx)
			if err := incr(); err != nil {
				return err
			}
		}
	}
	return nil
}

func emitAttrs(attrs ast.Attrs, stream *[]byte, count *uint16, strings *stringTable, styleNames map[string]uint16) error {
	incr2 := func() error {
		if *count > 65533 {
			return &ferrors.CodegenError{Message: "node count overflow"}
		}
		*count += 2
		return nil
	}

	if attrs.Style != nil {
		idx, ok := styleNames[*attrs.Style]
		if !ok {
			return &ferrors.CodegenError{Message: fmt.Sprintf("unknown style: '%s'", *attrs.Style)}
		}
		*stream = append(*stream, opStyleRef)
		*stream = appendU16(*stream, idx)
		if *count == 65535 {
			return &ferrors.CodegenError{Message: "node count overflow"}
		}
		*count++
	}

	if attrs.ID != nil {
		if err := emitAttrPair(stream, count, strings, "id", *attrs.ID, incr2); err != nil {
			return err
		}
	}

	for _, key := range attrs.SortedExtraKeys() {
		if err := emitAttrPair(stream, count, strings, key, attrs.Extra[key], incr2); err != nil {
			return err
		}
	}

	return nil
}

func emitAttrPair(stream *[]byte, count *uint16, strings *stringTable, key, val string, incr2 func() error) error {
	keyIdx, err := strings.intern(key)
	if err != nil {
		return err
	}
	valIdx, err := strings.intern(val)
	if err != nil {
		return err
	}
	*stream = append(*stream, opAttrKey)
	*stream = appendU16(*stream, keyIdx)
	*stream = append(*stream, opAttrVal)
	*stream = appendU16(*stream, valIdx)
	return incr2()
}

func emitLeafContent(kind ast.LeafKind, stream *[]byte, count *uint16, strings *stringTable) error {
	incr := func() error {
		if *count == 65535 {
			return &ferrors.CodegenError{Message: "node count overflow"}
		}
		*count++
		return nil
	}
	incr2 := func() error {
		if *count > 65533 {
			return &ferrors.CodegenError{Message: "node count overflow"}
		}
		*count += 2
		return nil
	}
	emitText := func(text string) error {
		idx, err := strings.intern(text)
		if err != nil {
			return err
		}
		*stream = append(*stream, opText)
		*stream = appendU16(*stream, idx)
		return incr()
	}
	emitAttr := func(key, val string) error {
		keyIdx, err := strings.intern(key)
		if err != nil {
			return err
		}
		valIdx, err := strings.intern(val)
		if err != nil {
			return err
		}
		*stream = append(*stream, opAttrKey)
		*stream = appendU16(*stream, keyIdx)
		*stream = append(*stream, opAttrVal)
		*stream = appendU16(*stream, valIdx)
		return incr2()
	}

	switch k := kind.(type) {
	case ast.Heading:
		return emitText(k.Text)
	case ast.Text:
		return emitText(k.Value)
	case ast.Item:
		return emitText(k.Value)
	case ast.Button:
		if err := emitAttr("action", k.Action); err != nil {
			return err
		}
		return emitText(k.Label)
	case ast.Input:
		if err := emitAttr("field", k.Field); err != nil {
			return err
		}
		if k.InputType != nil {
			if err := emitAttr("type", *k.InputType); err != nil {
				return err
			}
		}
		if k.Placeholder != nil {
			if err := emitAttr("placeholder", *k.Placeholder); err != nil {
				return err
			}
		}
		return nil
	case ast.Image:
		if err := emitAttr("src", k.Src); err != nil {
			return err
		}
		return emitAttr("alt", k.Alt)
	case ast.Link:
		if err := emitAttr("href", k.Href); err != nil {
			return err
		}
		return emitText(k.Label)
	case ast.Spacer:
		enc := k.Value.Encode()
		valStr := fmt.Sprintf("%02x%02x%02x%02x", enc[0], enc[1], enc[2], enc[3])
		return emitAttr("size", valStr)
	case ast.Metric:
		if err := emitAttr("label", k.Label); err != nil {
			return err
		}
		return emitAttr("value", k.MetricValue)
	case ast.Separator:
		return nil
	default:
		return &ferrors.CodegenError{Message: fmt.Sprintf("unhandled leaf kind %T", kind)}
	}
}

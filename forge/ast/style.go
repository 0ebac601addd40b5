package ast

// StyleDef is a named, reusable bundle of style properties.
type StyleDef struct {
	Name       string
	Properties []StyleProperty
	Span       Span
}

// StyleProperty is implemented by the closed set of 40 style property
// variants the Staves bytecode format understands.
type StyleProperty interface {
	ID() byte
}

type WidthProp struct{ Value Value }
type HeightProp struct{ Value Value }
type MarginTopProp struct{ Value Value }
type MarginRightProp struct{ Value Value }
type MarginBottomProp struct{ Value Value }
type MarginLeftProp struct{ Value Value }
type PaddingTopProp struct{ Value Value }
type PaddingRightProp struct{ Value Value }
type PaddingBottomProp struct{ Value Value }
type PaddingLeftProp struct{ Value Value }
type BackgroundProp struct{ Value Color }
type TextColorProp struct{ Value Color }
type FontSizeProp struct{ Value uint8 }
type DirectionProp struct{ Value Direction }
type JustifyProp struct{ Value Justify }
type AlignProp struct{ Value Align }
type DisplayProp struct{ Value Display }
type PositionProp struct{ Value Position }
type TopProp struct{ Value Value }
type RightProp struct{ Value Value }
type BottomProp struct{ Value Value }
type LeftProp struct{ Value Value }
type BorderWidthProp struct{ Value uint8 }
type BorderColorProp struct{ Value Color }
type BorderRadiusProp struct{ Value Value }
type OpacityProp struct{ Value uint8 }
type OverflowProp struct{ Value Overflow }
type TextAlignProp struct{ Value TextAlign }
type FontWeightProp struct{ Value uint16 }
type FontFamilyProp struct{ Value string }
type GapProp struct{ Value Value }
type WrapProp struct{ Value Wrap }
type GrowProp struct{ Value uint8 }
type ShrinkProp struct{ Value uint8 }
type ZIndexProp struct{ Value int16 }
type VisibilityProp struct{ Value Visibility }
type MaxWidthProp struct{ Value Value }
type MinWidthProp struct{ Value Value }
type MaxHeightProp struct{ Value Value }
type MinHeightProp struct{ Value Value }

func (WidthProp) ID() byte         { return 0x01 }
func (HeightProp) ID() byte        { return 0x02 }
func (MarginTopProp) ID() byte     { return 0x03 }
func (MarginRightProp) ID() byte   { return 0x04 }
func (MarginBottomProp) ID() byte  { return 0x05 }
func (MarginLeftProp) ID() byte    { return 0x06 }
func (PaddingTopProp) ID() byte    { return 0x07 }
func (PaddingRightProp) ID() byte  { return 0x08 }
func (PaddingBottomProp) ID() byte { return 0x09 }
func (PaddingLeftProp) ID() byte   { return 0x0A }
func (BackgroundProp) ID() byte    { return 0x0B }
func (TextColorProp) ID() byte     { return 0x0C }
func (FontSizeProp) ID() byte      { return 0x0D }
func (DirectionProp) ID() byte     { return 0x0E }
func (JustifyProp) ID() byte       { return 0x0F }
func (AlignProp) ID() byte         { return 0x10 }
func (DisplayProp) ID() byte       { return 0x11 }
func (PositionProp) ID() byte      { return 0x12 }
func (TopProp) ID() byte           { return 0x13 }
func (RightProp) ID() byte         { return 0x14 }
func (BottomProp) ID() byte        { return 0x15 }
func (LeftProp) ID() byte          { return 0x16 }
func (BorderWidthProp) ID() byte   { return 0x17 }
func (BorderColorProp) ID() byte   { return 0x18 }
func (BorderRadiusProp) ID() byte  { return 0x19 }
func (OpacityProp) ID() byte       { return 0x1A }
func (OverflowProp) ID() byte      { return 0x1B }
func (TextAlignProp) ID() byte     { return 0x1C }
func (FontWeightProp) ID() byte    { return 0x1D }
func (FontFamilyProp) ID() byte    { return 0x1E }
func (GapProp) ID() byte           { return 0x1F }
func (WrapProp) ID() byte          { return 0x20 }
func (GrowProp) ID() byte          { return 0x21 }
func (ShrinkProp) ID() byte        { return 0x22 }
func (ZIndexProp) ID() byte        { return 0x23 }
func (VisibilityProp) ID() byte    { return 0x24 }
func (MaxWidthProp) ID() byte      { return 0x25 }
func (MinWidthProp) ID() byte      { return 0x26 }
func (MaxHeightProp) ID() byte     { return 0x27 }
func (MinHeightProp) ID() byte     { return 0x28 }

// ValueUnit identifies the unit a Value's raw magnitude is in.
type ValueUnit uint8

const (
	UnitAuto ValueUnit = iota
	UnitPx
	UnitPercent
	UnitVh
	UnitVw
)

// Value is a dimension: an auto keyword or a signed/unsigned magnitude
// under one of the four supported units.
type Value struct {
	Unit ValueUnit
	Raw  int32
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minUint32(v, max uint32) uint32 {
	if v > max {
		return max
	}
	return v
}

// ValueAuto returns the auto keyword value.
func ValueAuto() Value { return Value{Unit: UnitAuto} }

// ValuePx returns a pixel value clamped to [-32767, 32767].
func ValuePx(v int32) Value { return Value{Unit: UnitPx, Raw: clampInt32(v, -32767, 32767)} }

// ValuePercent returns a percentage value stored in basis points,
// clamped to 10000 (100%).
func ValuePercent(v uint32) Value { return Value{Unit: UnitPercent, Raw: int32(minUint32(v, 10000))} }

// ValueVh returns a viewport-height value in tenths, clamped to 10000.
func ValueVh(v uint32) Value { return Value{Unit: UnitVh, Raw: int32(minUint32(v, 10000))} }

// ValueVw returns a viewport-width value in tenths, clamped to 10000.
func ValueVw(v uint32) Value { return Value{Unit: UnitVw, Raw: int32(minUint32(v, 10000))} }

// Encode packs the value into its 4-byte wire form: [unit, raw LE24].
func (v Value) Encode() [4]byte {
	raw := uint32(v.Raw)
	return [4]byte{byte(v.Unit), byte(raw), byte(raw >> 8), byte(raw >> 16)}
}

// Color is an RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Encode packs the color into its 4-byte wire form.
func (c Color) Encode() [4]byte { return [4]byte{c.R, c.G, c.B, c.A} }

type Direction uint8

const (
	DirectionRow Direction = iota
	DirectionColumn
)

func (d Direction) Encode() uint8 { return uint8(d) }

type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifyBetween
	JustifyAround
	JustifyEvenly
)

func (j Justify) Encode() uint8 { return uint8(j) }

type Align uint8

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignStretch
)

func (a Align) Encode() uint8 { return uint8(a) }

type Display uint8

const (
	DisplayBlock Display = iota
	DisplayFlex
	DisplayGrid
	DisplayInline
	DisplayNone
)

func (d Display) Encode() uint8 { return uint8(d) }

type Position uint8

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
)

func (p Position) Encode() uint8 { return uint8(p) }

type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowAuto
)

func (o Overflow) Encode() uint8 { return uint8(o) }

type TextAlign uint8

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
	TextAlignJustify
)

func (t TextAlign) Encode() uint8 { return uint8(t) }

type Wrap uint8

const (
	WrapNowrap Wrap = iota
	WrapWrap
)

func (w Wrap) Encode() uint8 { return uint8(w) }

type Visibility uint8

const (
	VisibilityVisible Visibility = iota
	VisibilityHidden
)

func (v Visibility) Encode() uint8 { return uint8(v) }

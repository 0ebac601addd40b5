// Package lexer tokenizes Staves DSL source, grounded on the original
// runemate-forge lexer.rs: unit-suffixed numeric literals, hex color
// literals disambiguated from line comments, and a closed keyword
// table.
package lexer

import "github.com/sage-x-project/nsp-forge/forge/ferrors"

// Kind identifies a token class.
type Kind int

const (
	KStave Kind = iota
	KStyle
	KTone
	KPulse
	KSafety
	KHeading
	KText
	KButton
	KInput
	KImage
	KLink
	KSpacer
	KItem
	KMetric
	KSeparator
	KRow
	KColumn
	KSection
	KList
	KGrid
	KIdent
	KStringLit
	KIntLit
	KFloatLit
	KColorHex
	KPx
	KPercent
	KVh
	KVw
	KHz
	KMs
	KSeconds
	KLBrace
	KRBrace
	KLParen
	KRParen
	KColon
	KComma
	KAuto
	KEof
)

// Token is a single lexical token; only the fields relevant to its
// Kind are populated.
type Token struct {
	Kind Kind

	Ident string
	Str   string
	Int   int64
	Float float64

	ColorR, ColorG, ColorB, ColorA uint8

	Px      int32
	Percent uint32
	Vh, Vw  uint32
	Hz      uint16
	Ms      uint16
	Seconds uint16
}

// SpannedToken pairs a Token with its source location.
type SpannedToken struct {
	Token Token
	Span  ferrors.Span
}

var keywords = map[string]Kind{
	"stave":     KStave,
	"style":     KStyle,
	"tone":      KTone,
	"pulse":     KPulse,
	"safety":    KSafety,
	"heading":   KHeading,
	"text":      KText,
	"button":    KButton,
	"input":     KInput,
	"image":     KImage,
	"link":      KLink,
	"spacer":    KSpacer,
	"item":      KItem,
	"metric":    KMetric,
	"separator": KSeparator,
	"row":       KRow,
	"column":    KColumn,
	"section":   KSection,
	"list":      KList,
	"grid":      KGrid,
	"auto":      KAuto,
}

// IdentOrKeyword returns a token's textual value for the keyword
// tokens the parser allows to double as identifiers where an
// identifier is expected.
func (t Token) IdentOrKeyword() (string, bool) {
	switch t.Kind {
	case KIdent:
		return t.Ident, true
	case KStave:
		return "stave", true
	case KStyle:
		return "style", true
	case KTone:
		return "tone", true
	case KPulse:
		return "pulse", true
	case KSafety:
		return "safety", true
	case KHeading:
		return "heading", true
	case KText:
		return "text", true
	case KButton:
		return "button", true
	case KInput:
		return "input", true
	case KImage:
		return "image", true
	case KLink:
		return "link", true
	case KSpacer:
		return "spacer", true
	case KItem:
		return "item", true
	case KMetric:
		return "metric", true
	case KSeparator:
		return "separator", true
	case KRow:
		return "row", true
	case KColumn:
		return "column", true
	case KSection:
		return "section", true
	case KList:
		return "list", true
	case KGrid:
		return "grid", true
	case KAuto:
		return "auto", true
	default:
		return "", false
	}
}

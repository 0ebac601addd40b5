// Package parser turns a Staves token stream into an ast.Document. There
// is no original Rust parser to translate: the runemate-forge parser.rs
// found alongside the other compiler stages transforms an HTML DOM into
// an unrelated "Runemate AST" format, so this package is authored
// directly from the Staves grammar sketch and the concrete DSL examples
// the original compiler's own test suite exercises.
package parser

import (
	"fmt"
	"math"

	"github.com/sage-x-project/nsp-forge/forge/ast"
	"github.com/sage-x-project/nsp-forge/forge/ferrors"
	"github.com/sage-x-project/nsp-forge/forge/lexer"
)

// Parse builds a Document from a token stream produced by lexer.Lex.
func Parse(tokens []lexer.SpannedToken) (*ast.Document, error) {
	p := &parser{tokens: tokens}
	return p.parseDocument()
}

type parser struct {
	tokens []lexer.SpannedToken
	pos    int
}

func (p *parser) peek() lexer.SpannedToken { return p.tokens[p.pos] }

func (p *parser) advance() lexer.SpannedToken {
	t := p.tokens[p.pos]
	if t.Token.Kind != lexer.KEof {
		p.pos++
	}
	return t
}

func (p *parser) span() ast.Span {
	s := p.peek().Span
	return ast.Span{Line: s.Line, Col: s.Col}
}

func (p *parser) errorf(format string, args ...any) error {
	s := p.peek().Span
	return &ferrors.ParseError{Message: fmt.Sprintf(format, args...), Span: s}
}

func (p *parser) expect(kind lexer.Kind, what string) (lexer.Token, error) {
	t := p.peek()
	if t.Token.Kind != kind {
		return lexer.Token{}, p.errorf("expected %s", what)
	}
	p.advance()
	return t.Token, nil
}

func (p *parser) expectIdent(what string) (string, error) {
	t := p.peek()
	if name, ok := t.Token.IdentOrKeyword(); ok {
		p.advance()
		return name, nil
	}
	return "", p.errorf("expected %s", what)
}

func (p *parser) expectString(what string) (string, error) {
	t := p.peek()
	if t.Token.Kind != lexer.KStringLit {
		return "", p.errorf("expected %s", what)
	}
	p.advance()
	return t.Token.Str, nil
}

func (p *parser) parseDocument() (*ast.Document, error) {
	doc := &ast.Document{}
	for p.peek().Token.Kind != lexer.KEof {
		switch p.peek().Token.Kind {
		case lexer.KStave:
			st, err := p.parseStave()
			if err != nil {
				return nil, err
			}
			doc.Staves = append(doc.Staves, st)
		case lexer.KStyle:
			s, err := p.parseStyle()
			if err != nil {
				return nil, err
			}
			doc.Styles = append(doc.Styles, s)
		case lexer.KTone:
			tn, err := p.parseTone()
			if err != nil {
				return nil, err
			}
			doc.Tones = append(doc.Tones, tn)
		case lexer.KPulse:
			pu, err := p.parsePulse()
			if err != nil {
				return nil, err
			}
			doc.Pulses = append(doc.Pulses, pu)
		case lexer.KSafety:
			sf, err := p.parseSafety()
			if err != nil {
				return nil, err
			}
			doc.Safety = sf
		default:
			return nil, p.errorf("expected stave, style, tone, pulse, or safety declaration")
		}
	}
	return doc, nil
}

func (p *parser) parseStave() (*ast.Stave, error) {
	span := p.span()
	p.advance() // 'stave'
	name, err := p.expectIdent("stave name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KLBrace, "'{'"); err != nil {
		return nil, err
	}
	var body []ast.Element
	for p.peek().Token.Kind != lexer.KRBrace {
		if p.peek().Token.Kind == lexer.KEof {
			return nil, p.errorf("unterminated stave body")
		}
		el, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		body = append(body, el)
	}
	p.advance() // '}'
	return &ast.Stave{Name: name, Body: body, Span: span}, nil
}

func containerKindOf(kind lexer.Kind) (ast.ContainerKind, bool) {
	switch kind {
	case lexer.KColumn:
		return ast.ContainerColumn, true
	case lexer.KRow:
		return ast.ContainerRow, true
	case lexer.KSection:
		return ast.ContainerSection, true
	case lexer.KList:
		return ast.ContainerList, true
	case lexer.KGrid:
		return ast.ContainerGrid, true
	default:
		return 0, false
	}
}

func (p *parser) parseElement() (ast.Element, error) {
	span := p.span()
	tok := p.peek().Token

	if kind, ok := containerKindOf(tok.Kind); ok {
		p.advance()
		attrs, err := p.parseOptionalAttrs()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KLBrace, "'{'"); err != nil {
			return nil, err
		}
		var children []ast.Element
		for p.peek().Token.Kind != lexer.KRBrace {
			if p.peek().Token.Kind == lexer.KEof {
				return nil, p.errorf("unterminated container body")
			}
			child, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		p.advance() // '}'
		return &ast.Container{Kind: kind, Attrs: attrs, Children: children, Span_: span}, nil
	}

	switch tok.Kind {
	case lexer.KTone:
		p.advance()
		name, err := p.expectIdent("tone name")
		if err != nil {
			return nil, err
		}
		return &ast.ToneRef{Name: name, Span_: span}, nil
	case lexer.KPulse:
		p.advance()
		name, err := p.expectIdent("pulse name")
		if err != nil {
			return nil, err
		}
		return &ast.PulseRef{Name: name, Span_: span}, nil
	case lexer.KHeading:
		p.advance()
		level := uint8(1)
		if p.peek().Token.Kind == lexer.KLParen {
			p.advance()
			n, err := p.expect(lexer.KIntLit, "heading level")
			if err != nil {
				return nil, err
			}
			level = clampHeadingLevel(n.Int)
			if _, err := p.expect(lexer.KRParen, "')'"); err != nil {
				return nil, err
			}
		}
		text, err := p.expectString("heading text")
		if err != nil {
			return nil, err
		}
		return &ast.Leaf{Kind: ast.Heading{Level: level, Text: text}, Span_: span}, nil
	case lexer.KText:
		p.advance()
		attrs, err := p.parseOptionalAttrs()
		if err != nil {
			return nil, err
		}
		text, err := p.expectString("text content")
		if err != nil {
			return nil, err
		}
		return &ast.Leaf{Kind: ast.Text{Value: text}, Attrs: attrs, Span_: span}, nil
	case lexer.KButton:
		p.advance()
		attrs, err := p.parseOptionalAttrs()
		if err != nil {
			return nil, err
		}
		label, err := p.expectString("button label")
		if err != nil {
			return nil, err
		}
		action := ""
		if attrs.Extra != nil {
			action = attrs.Extra["action"]
		}
		return &ast.Leaf{Kind: ast.Button{Action: action, Label: label}, Attrs: attrs, Span_: span}, nil
	case lexer.KInput:
		p.advance()
		attrs, err := p.parseOptionalAttrs()
		if err != nil {
			return nil, err
		}
		field := ""
		var inputType, placeholder *string
		if attrs.Extra != nil {
			if v, ok := attrs.Extra["field"]; ok {
				field = v
			}
			if v, ok := attrs.Extra["type"]; ok {
				vv := v
				inputType = &vv
			}
			if v, ok := attrs.Extra["placeholder"]; ok {
				vv := v
				placeholder = &vv
			}
		}
		return &ast.Leaf{Kind: ast.Input{Field: field, InputType: inputType, Placeholder: placeholder}, Attrs: attrs, Span_: span}, nil
	case lexer.KImage:
		p.advance()
		attrs, err := p.parseOptionalAttrs()
		if err != nil {
			return nil, err
		}
		src, alt := "", ""
		if attrs.Extra != nil {
			src = attrs.Extra["src"]
			alt = attrs.Extra["alt"]
		}
		return &ast.Leaf{Kind: ast.Image{Src: src, Alt: alt}, Attrs: attrs, Span_: span}, nil
	case lexer.KLink:
		p.advance()
		attrs, err := p.parseOptionalAttrs()
		if err != nil {
			return nil, err
		}
		label, err := p.expectString("link label")
		if err != nil {
			return nil, err
		}
		href := ""
		if attrs.Extra != nil {
			href = attrs.Extra["href"]
		}
		return &ast.Leaf{Kind: ast.Link{Href: href, Label: label}, Attrs: attrs, Span_: span}, nil
	case lexer.KSpacer:
		p.advance()
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		return &ast.Leaf{Kind: ast.Spacer{Value: v}, Span_: span}, nil
	case lexer.KItem:
		p.advance()
		attrs, err := p.parseOptionalAttrs()
		if err != nil {
			return nil, err
		}
		text, err := p.expectString("item text")
		if err != nil {
			return nil, err
		}
		return &ast.Leaf{Kind: ast.Item{Value: text}, Attrs: attrs, Span_: span}, nil
	case lexer.KMetric:
		p.advance()
		attrs, err := p.parseOptionalAttrs()
		if err != nil {
			return nil, err
		}
		label, err := p.expectString("metric label")
		if err != nil {
			return nil, err
		}
		value, err := p.expectString("metric value")
		if err != nil {
			return nil, err
		}
		return &ast.Leaf{Kind: ast.Metric{Label: label, MetricValue: value}, Attrs: attrs, Span_: span}, nil
	case lexer.KSeparator:
		p.advance()
		return &ast.Leaf{Kind: ast.Separator{}, Span_: span}, nil
	default:
		return nil, p.errorf("expected an element")
	}
}

func clampHeadingLevel(n int64) uint8 {
	if n < 1 {
		return 1
	}
	if n > 6 {
		return 6
	}
	return uint8(n)
}

// parseOptionalAttrs parses an optional "(" key: value, ... ")" clause,
// promoting style/id keys to dedicated fields.
func (p *parser) parseOptionalAttrs() (ast.Attrs, error) {
	var attrs ast.Attrs
	if p.peek().Token.Kind != lexer.KLParen {
		return attrs, nil
	}
	p.advance()
	attrs.Extra = make(map[string]string)
	for p.peek().Token.Kind != lexer.KRParen {
		if p.peek().Token.Kind == lexer.KEof {
			return attrs, p.errorf("unterminated attribute list")
		}
		key, err := p.expectIdent("attribute name")
		if err != nil {
			return attrs, err
		}
		if _, err := p.expect(lexer.KColon, "':'"); err != nil {
			return attrs, err
		}
		value, err := p.parseAttrValue()
		if err != nil {
			return attrs, err
		}
		switch key {
		case "style":
			v := value
			attrs.Style = &v
		case "id":
			v := value
			attrs.ID = &v
		default:
			attrs.Extra[key] = value
		}
		if p.peek().Token.Kind == lexer.KComma {
			p.advance()
		}
	}
	p.advance() // ')'
	return attrs, nil
}

// parseAttrValue renders an attribute value to its textual form; attrs
// are a string-keyed bag regardless of how the literal was lexed.
func (p *parser) parseAttrValue() (string, error) {
	t := p.peek().Token
	switch t.Kind {
	case lexer.KStringLit:
		p.advance()
		return t.Str, nil
	case lexer.KIntLit:
		p.advance()
		return fmt.Sprintf("%d", t.Int), nil
	case lexer.KFloatLit:
		p.advance()
		return fmt.Sprintf("%g", t.Float), nil
	default:
		if name, ok := t.IdentOrKeyword(); ok {
			p.advance()
			return name, nil
		}
		return "", p.errorf("expected attribute value")
	}
}

func (p *parser) parseValue() (ast.Value, error) {
	t := p.peek().Token
	switch t.Kind {
	case lexer.KAuto:
		p.advance()
		return ast.ValueAuto(), nil
	case lexer.KPx:
		p.advance()
		return ast.ValuePx(t.Px), nil
	case lexer.KPercent:
		p.advance()
		return ast.ValuePercent(t.Percent), nil
	case lexer.KVh:
		p.advance()
		return ast.ValueVh(t.Vh), nil
	case lexer.KVw:
		p.advance()
		return ast.ValueVw(t.Vw), nil
	case lexer.KIntLit:
		p.advance()
		return ast.ValuePx(int32(t.Int)), nil
	default:
		return ast.Value{}, p.errorf("expected a dimension value")
	}
}

func (p *parser) parseColor() (ast.Color, error) {
	t := p.peek().Token
	if t.Kind != lexer.KColorHex {
		return ast.Color{}, p.errorf("expected a color literal")
	}
	p.advance()
	return ast.Color{R: t.ColorR, G: t.ColorG, B: t.ColorB, A: t.ColorA}, nil
}

func (p *parser) parseUint8() (uint8, error) {
	t := p.peek().Token
	if t.Kind != lexer.KIntLit {
		return 0, p.errorf("expected an integer")
	}
	p.advance()
	if t.Int < 0 || t.Int > 255 {
		return 0, p.errorf("value out of range for a byte: %d", t.Int)
	}
	return uint8(t.Int), nil
}

func (p *parser) parseUint16() (uint16, error) {
	t := p.peek().Token
	if t.Kind != lexer.KIntLit {
		return 0, p.errorf("expected an integer")
	}
	p.advance()
	if t.Int < 0 || t.Int > 65535 {
		return 0, p.errorf("value out of range: %d", t.Int)
	}
	return uint16(t.Int), nil
}

func (p *parser) parseInt16() (int16, error) {
	t := p.peek().Token
	if t.Kind != lexer.KIntLit {
		return 0, p.errorf("expected an integer")
	}
	p.advance()
	if t.Int < -32768 || t.Int > 32767 {
		return 0, p.errorf("value out of range: %d", t.Int)
	}
	return int16(t.Int), nil
}

func (p *parser) parseUint32() (uint32, error) {
	t := p.peek().Token
	if t.Kind != lexer.KIntLit {
		return 0, p.errorf("expected an integer")
	}
	p.advance()
	if t.Int < 0 {
		return 0, p.errorf("value out of range: %d", t.Int)
	}
	return uint32(t.Int), nil
}

func (p *parser) parseFloat() (float64, error) {
	t := p.peek().Token
	switch t.Kind {
	case lexer.KFloatLit:
		p.advance()
		return t.Float, nil
	case lexer.KIntLit:
		p.advance()
		return float64(t.Int), nil
	default:
		return 0, p.errorf("expected a number")
	}
}

func (p *parser) parseString() (string, error) {
	return p.expectString("a string")
}

// parseDurationMs parses a duration literal: ms/s-suffixed values, or
// a bare integer interpreted as milliseconds.
func (p *parser) parseDurationMs() (uint16, error) {
	t := p.peek().Token
	switch t.Kind {
	case lexer.KMs:
		p.advance()
		return t.Ms, nil
	case lexer.KSeconds:
		p.advance()
		ms := uint32(t.Seconds) * 1000
		if ms > 65535 {
			return 0, p.errorf("duration out of range: %ds", t.Seconds)
		}
		return uint16(ms), nil
	case lexer.KIntLit:
		p.advance()
		if t.Int < 0 || t.Int > 65535 {
			return 0, p.errorf("duration out of range: %d", t.Int)
		}
		return uint16(t.Int), nil
	default:
		return 0, p.errorf("expected a duration")
	}
}

// parseFrequencyHz parses an hz-suffixed or bare-integer frequency.
func (p *parser) parseFrequencyHz() (uint16, error) {
	t := p.peek().Token
	switch t.Kind {
	case lexer.KHz:
		p.advance()
		return t.Hz, nil
	case lexer.KIntLit:
		p.advance()
		if t.Int < 0 || t.Int > 65535 {
			return 0, p.errorf("frequency out of range: %d", t.Int)
		}
		return uint16(t.Int), nil
	default:
		return 0, p.errorf("expected a frequency")
	}
}

// parseUnitFloatByte parses a [0,1] float and encodes it as
// round(v*255) clamped to a byte, the fixed amplitude/intensity
// encoding rule.
func (p *parser) parseUnitFloatByte() (uint8, error) {
	v, err := p.parseFloat()
	if err != nil {
		return 0, err
	}
	scaled := math.Round(v * 255)
	if scaled < 0 {
		scaled = 0
	}
	if scaled > 255 {
		scaled = 255
	}
	return uint8(scaled), nil
}

func (p *parser) parseStyle() (*ast.StyleDef, error) {
	span := p.span()
	p.advance() // 'style'
	name, err := p.expectIdent("style name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KLBrace, "'{'"); err != nil {
		return nil, err
	}
	var props []ast.StyleProperty
	for p.peek().Token.Kind != lexer.KRBrace {
		if p.peek().Token.Kind == lexer.KEof {
			return nil, p.errorf("unterminated style body")
		}
		prop, err := p.parseStyleProperty()
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
	}
	p.advance() // '}'
	return &ast.StyleDef{Name: name, Properties: props, Span: span}, nil
}

func (p *parser) parseStyleProperty() (ast.StyleProperty, error) {
	name, err := p.expectIdent("style property name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KColon, "':'"); err != nil {
		return nil, err
	}
	switch name {
	case "width":
		v, err := p.parseValue()
		return ast.WidthProp{Value: v}, err
	case "height":
		v, err := p.parseValue()
		return ast.HeightProp{Value: v}, err
	// The "margin" and "padding" shorthands take a single value and set
	// only the top side (MarginTop / PaddingTop); the other sides are
	// left unset.
	case "margin-top", "margin":
		v, err := p.parseValue()
		return ast.MarginTopProp{Value: v}, err
	case "margin-right":
		v, err := p.parseValue()
		return ast.MarginRightProp{Value: v}, err
	case "margin-bottom":
		v, err := p.parseValue()
		return ast.MarginBottomProp{Value: v}, err
	case "margin-left":
		v, err := p.parseValue()
		return ast.MarginLeftProp{Value: v}, err
	case "padding-top", "padding":
		v, err := p.parseValue()
		return ast.PaddingTopProp{Value: v}, err
	case "padding-right":
		v, err := p.parseValue()
		return ast.PaddingRightProp{Value: v}, err
	case "padding-bottom":
		v, err := p.parseValue()
		return ast.PaddingBottomProp{Value: v}, err
	case "padding-left":
		v, err := p.parseValue()
		return ast.PaddingLeftProp{Value: v}, err
	case "background":
		c, err := p.parseColor()
		return ast.BackgroundProp{Value: c}, err
	case "text-color":
		c, err := p.parseColor()
		return ast.TextColorProp{Value: c}, err
	case "font-size":
		v, err := p.parseUint8()
		return ast.FontSizeProp{Value: v}, err
	case "direction":
		ident, err := p.expectIdent("direction")
		if err != nil {
			return nil, err
		}
		d, err := parseDirection(ident)
		return ast.DirectionProp{Value: d}, err
	case "justify":
		ident, err := p.expectIdent("justify")
		if err != nil {
			return nil, err
		}
		j, err := parseJustify(ident)
		return ast.JustifyProp{Value: j}, err
	case "align":
		ident, err := p.expectIdent("align")
		if err != nil {
			return nil, err
		}
		a, err := parseAlign(ident)
		return ast.AlignProp{Value: a}, err
	case "display":
		ident, err := p.expectIdent("display")
		if err != nil {
			return nil, err
		}
		d, err := parseDisplay(ident)
		return ast.DisplayProp{Value: d}, err
	case "position":
		ident, err := p.expectIdent("position")
		if err != nil {
			return nil, err
		}
		ps, err := parsePosition(ident)
		return ast.PositionProp{Value: ps}, err
	case "top":
		v, err := p.parseValue()
		return ast.TopProp{Value: v}, err
	case "right":
		v, err := p.parseValue()
		return ast.RightProp{Value: v}, err
	case "bottom":
		v, err := p.parseValue()
		return ast.BottomProp{Value: v}, err
	case "left":
		v, err := p.parseValue()
		return ast.LeftProp{Value: v}, err
	case "border-width":
		v, err := p.parseUint8()
		return ast.BorderWidthProp{Value: v}, err
	case "border-color":
		c, err := p.parseColor()
		return ast.BorderColorProp{Value: c}, err
	case "border-radius":
		v, err := p.parseValue()
		return ast.BorderRadiusProp{Value: v}, err
	case "opacity":
		v, err := p.parseUnitFloatByte()
		return ast.OpacityProp{Value: v}, err
	case "overflow":
		ident, err := p.expectIdent("overflow")
		if err != nil {
			return nil, err
		}
		o, err := parseOverflow(ident)
		return ast.OverflowProp{Value: o}, err
	case "text-align":
		ident, err := p.expectIdent("text-align")
		if err != nil {
			return nil, err
		}
		t, err := parseTextAlign(ident)
		return ast.TextAlignProp{Value: t}, err
	case "font-weight":
		v, err := p.parseUint16()
		return ast.FontWeightProp{Value: v}, err
	case "font-family":
		v, err := p.parseString()
		return ast.FontFamilyProp{Value: v}, err
	case "gap":
		v, err := p.parseValue()
		return ast.GapProp{Value: v}, err
	case "wrap":
		ident, err := p.expectIdent("wrap")
		if err != nil {
			return nil, err
		}
		w, err := parseWrap(ident)
		return ast.WrapProp{Value: w}, err
	case "grow":
		v, err := p.parseUint8()
		return ast.GrowProp{Value: v}, err
	case "shrink":
		v, err := p.parseUint8()
		return ast.ShrinkProp{Value: v}, err
	case "z-index":
		v, err := p.parseInt16()
		return ast.ZIndexProp{Value: v}, err
	case "visibility":
		ident, err := p.expectIdent("visibility")
		if err != nil {
			return nil, err
		}
		v, err := parseVisibility(ident)
		return ast.VisibilityProp{Value: v}, err
	case "max-width":
		v, err := p.parseValue()
		return ast.MaxWidthProp{Value: v}, err
	case "min-width":
		v, err := p.parseValue()
		return ast.MinWidthProp{Value: v}, err
	case "max-height":
		v, err := p.parseValue()
		return ast.MaxHeightProp{Value: v}, err
	case "min-height":
		v, err := p.parseValue()
		return ast.MinHeightProp{Value: v}, err
	default:
		return nil, p.errorf("unknown style property: %s", name)
	}
}

func parseDirection(s string) (ast.Direction, error) {
	switch s {
	case "row":
		return ast.DirectionRow, nil
	case "column":
		return ast.DirectionColumn, nil
	default:
		return 0, fmt.Errorf("unknown direction: %s", s)
	}
}

func parseJustify(s string) (ast.Justify, error) {
	switch s {
	case "start":
		return ast.JustifyStart, nil
	case "center":
		return ast.JustifyCenter, nil
	case "end":
		return ast.JustifyEnd, nil
	case "between":
		return ast.JustifyBetween, nil
	case "around":
		return ast.JustifyAround, nil
	case "evenly":
		return ast.JustifyEvenly, nil
	default:
		return 0, fmt.Errorf("unknown justify: %s", s)
	}
}

func parseAlign(s string) (ast.Align, error) {
	switch s {
	case "start":
		return ast.AlignStart, nil
	case "center":
		return ast.AlignCenter, nil
	case "end":
		return ast.AlignEnd, nil
	case "stretch":
		return ast.AlignStretch, nil
	default:
		return 0, fmt.Errorf("unknown align: %s", s)
	}
}

func parseDisplay(s string) (ast.Display, error) {
	switch s {
	case "block":
		return ast.DisplayBlock, nil
	case "flex":
		return ast.DisplayFlex, nil
	case "grid":
		return ast.DisplayGrid, nil
	case "inline":
		return ast.DisplayInline, nil
	case "none":
		return ast.DisplayNone, nil
	default:
		return 0, fmt.Errorf("unknown display: %s", s)
	}
}

func parsePosition(s string) (ast.Position, error) {
	switch s {
	case "static":
		return ast.PositionStatic, nil
	case "relative":
		return ast.PositionRelative, nil
	case "absolute":
		return ast.PositionAbsolute, nil
	case "fixed":
		return ast.PositionFixed, nil
	default:
		return 0, fmt.Errorf("unknown position: %s", s)
	}
}

func parseOverflow(s string) (ast.Overflow, error) {
	switch s {
	case "visible":
		return ast.OverflowVisible, nil
	case "hidden":
		return ast.OverflowHidden, nil
	case "scroll":
		return ast.OverflowScroll, nil
	case "auto":
		return ast.OverflowAuto, nil
	default:
		return 0, fmt.Errorf("unknown overflow: %s", s)
	}
}

func parseTextAlign(s string) (ast.TextAlign, error) {
	switch s {
	case "left":
		return ast.TextAlignLeft, nil
	case "center":
		return ast.TextAlignCenter, nil
	case "right":
		return ast.TextAlignRight, nil
	case "justify":
		return ast.TextAlignJustify, nil
	default:
		return 0, fmt.Errorf("unknown text-align: %s", s)
	}
}

func parseWrap(s string) (ast.Wrap, error) {
	switch s {
	case "nowrap":
		return ast.WrapNowrap, nil
	case "wrap":
		return ast.WrapWrap, nil
	default:
		return 0, fmt.Errorf("unknown wrap: %s", s)
	}
}

func parseVisibility(s string) (ast.Visibility, error) {
	switch s {
	case "visible":
		return ast.VisibilityVisible, nil
	case "hidden":
		return ast.VisibilityHidden, nil
	default:
		return 0, fmt.Errorf("unknown visibility: %s", s)
	}
}

func (p *parser) parseTone() (*ast.ToneDef, error) {
	span := p.span()
	p.advance() // 'tone'
	name, err := p.expectIdent("tone name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KLBrace, "'{'"); err != nil {
		return nil, err
	}
	def := &ast.ToneDef{Name: name, Span: span}
	for p.peek().Token.Kind != lexer.KRBrace {
		if p.peek().Token.Kind == lexer.KEof {
			return nil, p.errorf("unterminated tone body")
		}
		key, err := p.expectIdent("tone property name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KColon, "':'"); err != nil {
			return nil, err
		}
		switch key {
		case "frequency":
			v, err := p.parseFrequencyHz()
			if err != nil {
				return nil, err
			}
			def.Frequency = v
		case "duration":
			v, err := p.parseDurationMs()
			if err != nil {
				return nil, err
			}
			def.DurationMs = v
		case "amplitude":
			v, err := p.parseUnitFloatByte()
			if err != nil {
				return nil, err
			}
			def.Amplitude = v
		case "waveform":
			ident, err := p.expectIdent("waveform")
			if err != nil {
				return nil, err
			}
			w, err := parseWaveform(ident)
			if err != nil {
				return nil, p.errorf("%s", err)
			}
			def.Waveform = w
		case "channel":
			v, err := p.parseUint8()
			if err != nil {
				return nil, err
			}
			def.Channel = v
		default:
			return nil, p.errorf("unknown tone property: %s", key)
		}
	}
	p.advance() // '}'
	return def, nil
}

func parseWaveform(s string) (ast.Waveform, error) {
	switch s {
	case "biphasic":
		return ast.WaveformBiphasic, nil
	case "sine":
		return ast.WaveformSine, nil
	case "square":
		return ast.WaveformSquare, nil
	default:
		return 0, fmt.Errorf("unknown waveform: %s", s)
	}
}

func parsePulseWaveform(s string) (ast.PulseWaveform, error) {
	switch s {
	case "biphasic":
		return ast.PulseWaveformBiphasic, nil
	case "monophasic":
		return ast.PulseWaveformMonophasic, nil
	case "ramp":
		return ast.PulseWaveformRamp, nil
	default:
		return 0, fmt.Errorf("unknown waveform: %s", s)
	}
}

func (p *parser) parsePulse() (*ast.PulseDef, error) {
	span := p.span()
	p.advance() // 'pulse'
	name, err := p.expectIdent("pulse name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KLBrace, "'{'"); err != nil {
		return nil, err
	}
	def := &ast.PulseDef{Name: name, Span: span}
	for p.peek().Token.Kind != lexer.KRBrace {
		if p.peek().Token.Kind == lexer.KEof {
			return nil, p.errorf("unterminated pulse body")
		}
		key, err := p.expectIdent("pulse property name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KColon, "':'"); err != nil {
			return nil, err
		}
		switch key {
		case "region":
			v, err := p.parseString()
			if err != nil {
				return nil, err
			}
			def.Region = v
		case "duration":
			v, err := p.parseDurationMs()
			if err != nil {
				return nil, err
			}
			def.DurationMs = v
		case "intensity":
			v, err := p.parseUnitFloatByte()
			if err != nil {
				return nil, err
			}
			def.Intensity = v
		case "waveform":
			ident, err := p.expectIdent("waveform")
			if err != nil {
				return nil, err
			}
			w, err := parsePulseWaveform(ident)
			if err != nil {
				return nil, p.errorf("%s", err)
			}
			def.Waveform = w
		case "charge":
			v, err := p.parseUnitFloatByte()
			if err != nil {
				return nil, err
			}
			def.Charge = v
		default:
			return nil, p.errorf("unknown pulse property: %s", key)
		}
	}
	p.advance() // '}'
	return def, nil
}

func (p *parser) parseSafety() (*ast.SafetyDef, error) {
	span := p.span()
	p.advance() // 'safety'
	name, err := p.expectIdent("safety name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KLBrace, "'{'"); err != nil {
		return nil, err
	}
	def := &ast.SafetyDef{Name: name, Span: span}
	for p.peek().Token.Kind != lexer.KRBrace {
		if p.peek().Token.Kind == lexer.KEof {
			return nil, p.errorf("unterminated safety body")
		}
		key, err := p.expectIdent("safety property name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KColon, "':'"); err != nil {
			return nil, err
		}
		switch key {
		case "max-elements":
			v, err := p.parseUint16()
			if err != nil {
				return nil, err
			}
			def.MaxElements = v
		case "max-depth":
			v, err := p.parseUint16()
			if err != nil {
				return nil, err
			}
			def.MaxDepth = v
		case "max-bytecode":
			v, err := p.parseUint32()
			if err != nil {
				return nil, err
			}
			def.MaxBytecode = v
		case "max-charge-density":
			v, err := p.parseFloat()
			if err != nil {
				return nil, err
			}
			def.MaxChargeDensity = float32(v)
		case "max-charge-per-phase":
			v, err := p.parseFloat()
			if err != nil {
				return nil, err
			}
			def.MaxChargePerPhase = float32(v)
		case "max-frequency":
			v, err := p.parseFrequencyHz()
			if err != nil {
				return nil, err
			}
			def.MaxFrequency = v
		case "max-amplitude":
			v, err := p.parseFloat()
			if err != nil {
				return nil, err
			}
			def.MaxAmplitude = float32(v)
		case "shannon-k":
			v, err := p.parseFloat()
			if err != nil {
				return nil, err
			}
			def.ShannonK = float32(v)
		default:
			return nil, p.errorf("unknown safety property: %s", key)
		}
	}
	p.advance() // '}'
	return def, nil
}

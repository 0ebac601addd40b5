package lexer

import (
	"fmt"
	"strconv"

	"github.com/sage-x-project/nsp-forge/forge/ferrors"
)

// Lex tokenizes Staves DSL source into a token stream terminated by an
// Eof token.
func Lex(source string) ([]SpannedToken, error) {
	chars := []rune(source)
	var tokens []SpannedToken
	pos := 0
	var line, col uint32 = 1, 1

	for pos < len(chars) {
		ch := chars[pos]

		if ch == '\n' {
			line++
			col = 1
			pos++
			continue
		}
		if ch == ' ' || ch == '\t' || ch == '\r' {
			col++
			pos++
			continue
		}

		if ch == '/' && pos+1 < len(chars) && chars[pos+1] == '/' {
			for pos < len(chars) && chars[pos] != '\n' {
				pos++
			}
			continue
		}
		if ch == '#' {
			atLineStart := pos == 0 || chars[pos-1] == '\n' || isAsciiWhitespace(chars[pos-1])
			nextIsHex := pos+1 < len(chars) && isHexDigit(chars[pos+1])
			if atLineStart && !nextIsHex {
				for pos < len(chars) && chars[pos] != '\n' {
					pos++
				}
				continue
			}
		}

		span := ferrors.NewSpan(line, col)

		switch ch {
		case '{':
			tokens = append(tokens, SpannedToken{Token{Kind: KLBrace}, span})
			pos++
			col++
			continue
		case '}':
			tokens = append(tokens, SpannedToken{Token{Kind: KRBrace}, span})
			pos++
			col++
			continue
		case '(':
			tokens = append(tokens, SpannedToken{Token{Kind: KLParen}, span})
			pos++
			col++
			continue
		case ')':
			tokens = append(tokens, SpannedToken{Token{Kind: KRParen}, span})
			pos++
			col++
			continue
		case ':':
			tokens = append(tokens, SpannedToken{Token{Kind: KColon}, span})
			pos++
			col++
			continue
		case ',':
			tokens = append(tokens, SpannedToken{Token{Kind: KComma}, span})
			pos++
			col++
			continue
		}

		if ch == '"' {
			pos++
			col++
			var s []rune
			for pos < len(chars) && chars[pos] != '"' {
				if chars[pos] == '\\' && pos+1 < len(chars) {
					switch chars[pos+1] {
					case 'n':
						s = append(s, '\n')
					case 't':
						s = append(s, '\t')
					case '"':
						s = append(s, '"')
					case '\\':
						s = append(s, '\\')
					default:
						s = append(s, chars[pos+1])
					}
					pos += 2
					col += 2
				} else {
					if chars[pos] == '\n' {
						line++
						col = 1
					} else {
						col++
					}
					s = append(s, chars[pos])
					pos++
				}
			}
			if pos >= len(chars) {
				return nil, &ferrors.ParseError{Message: "unterminated string", Span: span}
			}
			pos++
			col++
			tokens = append(tokens, SpannedToken{Token{Kind: KStringLit, Str: string(s)}, span})
			continue
		}

		if ch == '#' {
			pos++
			col++
			start := pos
			for pos < len(chars) && isHexDigit(chars[pos]) {
				pos++
				col++
			}
			hex := string(chars[start:pos])
			r, g, b, a, err := parseHexColor(hex, span)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, SpannedToken{Token{Kind: KColorHex, ColorR: r, ColorG: g, ColorB: b, ColorA: a}, span})
			continue
		}

		if isAsciiDigit(ch) || (ch == '-' && pos+1 < len(chars) && isAsciiDigit(chars[pos+1])) {
			start := pos
			if ch == '-' {
				pos++
				col++
			}
			for pos < len(chars) && isAsciiDigit(chars[pos]) {
				pos++
				col++
			}
			isFloat := false
			if pos < len(chars) && chars[pos] == '.' && pos+1 < len(chars) && isAsciiDigit(chars[pos+1]) {
				isFloat = true
				pos++
				col++
				for pos < len(chars) && isAsciiDigit(chars[pos]) {
					pos++
					col++
				}
			}
			numStr := string(chars[start:pos])

			suffixStart := pos
			if pos < len(chars) && chars[pos] == '%' {
				pos++
				col++
			} else {
				for pos < len(chars) && isAsciiAlpha(chars[pos]) {
					pos++
					col++
				}
			}
			suffix := string(chars[suffixStart:pos])

			tok, err := numericToken(numStr, suffix, isFloat, span)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, SpannedToken{tok, span})
			continue
		}

		if isAsciiAlpha(ch) || ch == '_' {
			start := pos
			for pos < len(chars) && (isAsciiAlnum(chars[pos]) || chars[pos] == '_' || chars[pos] == '-') {
				pos++
				col++
			}
			word := string(chars[start:pos])
			if kind, ok := keywords[word]; ok {
				tokens = append(tokens, SpannedToken{Token{Kind: kind}, span})
			} else {
				tokens = append(tokens, SpannedToken{Token{Kind: KIdent, Ident: word}, span})
			}
			continue
		}

		return nil, &ferrors.ParseError{Message: fmt.Sprintf("unexpected character: '%c'", ch), Span: span}
	}

	tokens = append(tokens, SpannedToken{Token{Kind: KEof}, ferrors.NewSpan(line, col)})
	return tokens, nil
}

func numericToken(numStr, suffix string, isFloat bool, span ferrors.Span) (Token, error) {
	invalid := func(kind string) error {
		return &ferrors.ParseError{Message: fmt.Sprintf("invalid %s value: %s", kind, numStr), Span: span}
	}
	switch suffix {
	case "px":
		v, err := strconv.ParseInt(numStr, 10, 32)
		if err != nil {
			return Token{}, invalid("px")
		}
		return Token{Kind: KPx, Px: int32(v)}, nil
	case "%":
		v, err := strconv.ParseUint(numStr, 10, 32)
		if err != nil {
			return Token{}, invalid("%")
		}
		return Token{Kind: KPercent, Percent: uint32(v) * 100}, nil
	case "vh":
		v, err := strconv.ParseUint(numStr, 10, 32)
		if err != nil {
			return Token{}, invalid("vh")
		}
		return Token{Kind: KVh, Vh: uint32(v) * 10}, nil
	case "vw":
		v, err := strconv.ParseUint(numStr, 10, 32)
		if err != nil {
			return Token{}, invalid("vw")
		}
		return Token{Kind: KVw, Vw: uint32(v) * 10}, nil
	case "hz":
		v, err := strconv.ParseUint(numStr, 10, 16)
		if err != nil {
			return Token{}, invalid("hz")
		}
		return Token{Kind: KHz, Hz: uint16(v)}, nil
	case "ms":
		v, err := strconv.ParseUint(numStr, 10, 16)
		if err != nil {
			return Token{}, invalid("ms")
		}
		return Token{Kind: KMs, Ms: uint16(v)}, nil
	case "s":
		v, err := strconv.ParseUint(numStr, 10, 16)
		if err != nil {
			return Token{}, invalid("s")
		}
		return Token{Kind: KSeconds, Seconds: uint16(v)}, nil
	case "":
		if isFloat {
			v, err := strconv.ParseFloat(numStr, 64)
			if err != nil {
				return Token{}, &ferrors.ParseError{Message: fmt.Sprintf("invalid float: %s", numStr), Span: span}
			}
			return Token{Kind: KFloatLit, Float: v}, nil
		}
		v, err := strconv.ParseInt(numStr, 10, 64)
		if err != nil {
			return Token{}, &ferrors.ParseError{Message: fmt.Sprintf("invalid integer: %s", numStr), Span: span}
		}
		return Token{Kind: KIntLit, Int: v}, nil
	default:
		return Token{}, &ferrors.ParseError{Message: fmt.Sprintf("unknown unit suffix: %s", suffix), Span: span}
	}
}

func parseHexColor(hex string, span ferrors.Span) (r, g, b, a uint8, err error) {
	bad := func() error {
		return &ferrors.ParseError{Message: fmt.Sprintf("invalid hex color: #%s", hex), Span: span}
	}
	parseByte := func(s string) (uint8, bool) {
		v, err := strconv.ParseUint(s, 16, 8)
		return uint8(v), err == nil
	}
	switch len(hex) {
	case 3:
		rv, ok1 := parseByte(hex[0:1])
		gv, ok2 := parseByte(hex[1:2])
		bv, ok3 := parseByte(hex[2:3])
		if !ok1 || !ok2 || !ok3 {
			return 0, 0, 0, 0, bad()
		}
		return rv * 17, gv * 17, bv * 17, 255, nil
	case 6:
		rv, ok1 := parseByte(hex[0:2])
		gv, ok2 := parseByte(hex[2:4])
		bv, ok3 := parseByte(hex[4:6])
		if !ok1 || !ok2 || !ok3 {
			return 0, 0, 0, 0, bad()
		}
		return rv, gv, bv, 255, nil
	case 8:
		rv, ok1 := parseByte(hex[0:2])
		gv, ok2 := parseByte(hex[2:4])
		bv, ok3 := parseByte(hex[4:6])
		av, ok4 := parseByte(hex[6:8])
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return 0, 0, 0, 0, bad()
		}
		return rv, gv, bv, av, nil
	default:
		return 0, 0, 0, 0, bad()
	}
}

func isAsciiWhitespace(r rune) bool { return r == ' ' || r == '\t' || r == '\r' || r == '\n' }
func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
func isAsciiDigit(r rune) bool { return r >= '0' && r <= '9' }
func isAsciiAlpha(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isAsciiAlnum(r rune) bool { return isAsciiAlpha(r) || isAsciiDigit(r) }

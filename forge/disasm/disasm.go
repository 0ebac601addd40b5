// Package disasm renders Staves v1.0 bytecode back into human-readable
// text, grounded on the original runemate-forge disasm.rs: header
// fields, string/tone/pulse table dumps, and an indented node-stream
// walk. The style table dump is intentionally shallow (entry count
// only), matching the original's own scope.
package disasm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/sage-x-project/nsp-forge/forge/ferrors"
)

// Disassemble renders bytecode produced by codegen.Emit into a
// human-readable listing.
func Disassemble(bytecode []byte) (string, error) {
	if len(bytecode) < 25 {
		return "", &ferrors.CodegenError{Message: "bytecode too short for valid Staves file"}
	}
	if string(bytecode[0:4]) != "STV1" {
		return "", &ferrors.CodegenError{Message: fmt.Sprintf("invalid magic: expected STV1, got %v", bytecode[0:4])}
	}

	versionMajor := bytecode[4]
	versionMinor := bytecode[5]

	flags := bytecode[6]
	stringOffset := int(readU32LE(bytecode, 7))
	styleOffset := int(readU32LE(bytecode, 11))
	toneOffset := int(readU32LE(bytecode, 15))
	nodeCount := readU16LE(bytecode, 19)
	totalSize := readU32LE(bytecode, 21)

	var out strings.Builder
	fmt.Fprintf(&out, "=== Staves v%d.%d Disassembly ===\n", versionMajor, versionMinor)
	fmt.Fprintf(&out, "Flags: 0x%02x (styles=%t, tones=%t, strict=%t)\n",
		flags, flags&1 != 0, flags&2 != 0, flags&4 != 0)
	fmt.Fprintf(&out, "Node count: %d\n", nodeCount)
	fmt.Fprintf(&out, "Total size: %d bytes\n", totalSize)
	fmt.Fprintf(&out, "String table @ %d\n", stringOffset)
	fmt.Fprintf(&out, "Style table @ %d\n", styleOffset)
	fmt.Fprintf(&out, "Tone/Pulse table @ %d\n\n", toneOffset)

	var table []string
	if stringOffset < len(bytecode) {
		var err error
		table, err = decodeStringTable(bytecode, stringOffset)
		if err != nil {
			return "", err
		}
	}

	if len(table) > 0 {
		fmt.Fprintf(&out, "--- String Table (%d entries) ---\n", len(table))
		for i, s := range table {
			fmt.Fprintf(&out, "  [%d] %q\n", i, s)
		}
		out.WriteByte('\n')
	}

	if styleOffset < toneOffset && styleOffset < len(bytecode) {
		out.WriteString("--- Style Table ---\n")
		styleCount := readU16LE(bytecode, styleOffset)
		fmt.Fprintf(&out, "  %d style sets\n", styleCount)
		out.WriteByte('\n')
	}

	if toneOffset < len(bytecode) {
		tpCount := readU16LE(bytecode, toneOffset)
		if tpCount > 0 {
			fmt.Fprintf(&out, "--- Tone/Pulse Table (%d entries) ---\n", tpCount)
			pos := toneOffset + 2
		tonePulseLoop:
			for i := 0; i < int(tpCount); i++ {
				if pos >= len(bytecode) {
					break
				}
				entryType := bytecode[pos]
				switch entryType {
				case 0x01:
					freq := readU16LE(bytecode, pos+1)
					dur := readU16LE(bytecode, pos+3)
					amp := bytecode[pos+5]
					wf := bytecode[pos+6]
					ch := bytecode[pos+7]
					fmt.Fprintf(&out, "  [%d] TONE freq=%dHz dur=%dms amp=%d wf=%s ch=%d\n",
						i, freq, dur, amp, toneWaveformName(wf), ch)
					pos += 9
				case 0x02:
					regionIdx := readU16LE(bytecode, pos+1)
					dur := readU16LE(bytecode, pos+3)
					intensity := bytecode[pos+5]
					wf := bytecode[pos+6]
					charge := bytecode[pos+7]
					region := stringAt(table, int(regionIdx))
					fmt.Fprintf(&out, "  [%d] PULSE region=%q dur=%dms int=%d wf=%s charge=%d\n",
						i, region, dur, intensity, pulseWaveformName(wf), charge)
					pos += 9
				default:
					fmt.Fprintf(&out, "  [%d] UNKNOWN type=0x%02x\n", i, entryType)
					break tonePulseLoop
				}
			}
			out.WriteByte('\n')
		}
	}

	out.WriteString("--- Node Stream ---\n")
	nodeStreamStart := 25
	nodeStreamEnd := stringOffset
	if nodeStreamEnd > len(bytecode) {
		nodeStreamEnd = len(bytecode)
	}
	pos := nodeStreamStart
	indent := 0

	for pos < nodeStreamEnd {
		op := bytecode[pos]
		prefix := strings.Repeat("  ", indent)
		switch op {
		case 0x01:
			if pos+1 >= nodeStreamEnd {
				pos = nodeStreamEnd
				continue
			}
			tag := bytecode[pos+1]
			fmt.Fprintf(&out, "%s%s\n", prefix, tagName(tag))
			indent++
			pos += 2
		case 0x02:
			if indent > 0 {
				indent--
			}
			pos++
		case 0x03:
			if pos+2 >= nodeStreamEnd {
				pos = nodeStreamEnd
				continue
			}
			idx := readU16LE(bytecode, pos+1)
			fmt.Fprintf(&out, "%sTEXT %q\n", prefix, stringAt(table, int(idx)))
			pos += 3
		case 0x04:
			if pos+2 >= nodeStreamEnd {
				pos = nodeStreamEnd
				continue
			}
			idx := readU16LE(bytecode, pos+1)
			fmt.Fprintf(&out, "%sSTYLE [%d]\n", prefix, idx)
			pos += 3
		case 0x05:
			if pos+2 >= nodeStreamEnd {
				pos = nodeStreamEnd
				continue
			}
			idx := readU16LE(bytecode, pos+1)
			fmt.Fprintf(&out, "%sATTR_KEY %q\n", prefix, stringAt(table, int(idx)))
			pos += 3
		case 0x06:
			if pos+2 >= nodeStreamEnd {
				pos = nodeStreamEnd
				continue
			}
			idx := readU16LE(bytecode, pos+1)
			fmt.Fprintf(&out, "%sATTR_VAL %q\n", prefix, stringAt(table, int(idx)))
			pos += 3
		case 0x07:
			if pos+2 >= nodeStreamEnd {
				pos = nodeStreamEnd
				continue
			}
			idx := readU16LE(bytecode, pos+1)
			fmt.Fprintf(&out, "%sSTAVE %q {\n", prefix, stringAt(table, int(idx)))
			indent++
			pos += 3
		case 0x08:
			if indent > 0 {
				indent--
			}
			closePrefix := strings.Repeat("  ", indent)
			fmt.Fprintf(&out, "%s}\n", closePrefix)
			pos++
		case 0x09:
			fmt.Fprintf(&out, "%sSEPARATOR\n", prefix)
			pos++
		case 0x20:
			if pos+2 >= nodeStreamEnd {
				pos = nodeStreamEnd
				continue
			}
			idx := readU16LE(bytecode, pos+1)
			fmt.Fprintf(&out, "%sTONE_REF [%d]\n", prefix, idx)
			pos += 3
		case 0x30:
			if pos+2 >= nodeStreamEnd {
				pos = nodeStreamEnd
				continue
			}
			idx := readU16LE(bytecode, pos+1)
			fmt.Fprintf(&out, "%sPULSE_REF [%d]\n", prefix, idx)
			pos += 3
		default:
			fmt.Fprintf(&out, "%sUNKNOWN 0x%02x\n", prefix, op)
			pos++
		}
	}

	return out.String(), nil
}

func stringAt(table []string, idx int) string {
	if idx < 0 || idx >= len(table) {
		return "?"
	}
	return table[idx]
}

func toneWaveformName(wf byte) string {
	switch wf {
	case 0:
		return "biphasic"
	case 1:
		return "sine"
	case 2:
		return "square"
	default:
		return "?"
	}
}

func pulseWaveformName(wf byte) string {
	switch wf {
	case 0:
		return "biphasic"
	case 1:
		return "monophasic"
	case 2:
		return "ramp"
	default:
		return "?"
	}
}

func decodeStringTable(bytecode []byte, offset int) ([]string, error) {
	if offset+2 > len(bytecode) {
		return nil, nil
	}
	count := int(readU16LE(bytecode, offset))
	out := make([]string, 0, count)
	pos := offset + 2

	for i := 0; i < count; i++ {
		if pos+2 > len(bytecode) {
			return nil, &ferrors.CodegenError{Message: "truncated string table"}
		}
		length := int(readU16LE(bytecode, pos))
		pos += 2
		if pos+length > len(bytecode) {
			return nil, &ferrors.CodegenError{Message: "truncated string entry"}
		}
		out = append(out, string(bytecode[pos:pos+length]))
		pos += length
	}

	return out, nil
}

func tagName(tag byte) string {
	switch tag {
	case 0x01:
		return "COLUMN"
	case 0x02:
		return "ROW"
	case 0x03:
		return "SECTION"
	case 0x04:
		return "LIST"
	case 0x05:
		return "GRID"
	case 0x08:
		return "TEXT"
	case 0x09:
		return "BUTTON"
	case 0x0A:
		return "INPUT"
	case 0x0B:
		return "IMAGE"
	case 0x0C:
		return "LINK"
	case 0x10:
		return "HEADING-1"
	case 0x11:
		return "HEADING-2"
	case 0x12:
		return "HEADING-3"
	case 0x13:
		return "HEADING-4"
	case 0x14:
		return "HEADING-5"
	case 0x15:
		return "HEADING-6+"
	case 0x18:
		return "METRIC"
	case 0x19:
		return "SEPARATOR"
	case 0x1A:
		return "SPACER"
	case 0x1B:
		return "ITEM"
	default:
		return "UNKNOWN"
	}
}

func readU16LE(data []byte, offset int) uint16 {
	if offset+2 > len(data) {
		return 0
	}
	return binary.LittleEndian.Uint16(data[offset : offset+2])
}

func readU32LE(data []byte, offset int) uint32 {
	if offset+4 > len(data) {
		return 0
	}
	return binary.LittleEndian.Uint32(data[offset : offset+4])
}

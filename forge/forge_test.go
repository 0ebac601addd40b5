package forge

import (
	"strings"
	"testing"

	"github.com/sage-x-project/nsp-forge/forge/disasm"
)

func TestCompileMinimal(t *testing.T) {
	src := `stave dashboard {
		heading(1) "Neural Status"
	}`
	cr, err := Compile(src)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if len(cr.Bytecode) == 0 {
		t.Fatal("expected nonempty bytecode")
	}
	if len(cr.StaveNames) != 1 || cr.StaveNames[0] != "dashboard" {
		t.Errorf("stave names = %v", cr.StaveNames)
	}
	if string(cr.Bytecode[0:4]) != "STV1" {
		t.Errorf("magic = %q", cr.Bytecode[0:4])
	}
}

func TestCompileWithStyle(t *testing.T) {
	src := `
		style card {
			width: 200px
			background: #1a1a2e
			padding-top: 16px
		}
		stave test {
			column(style: card) {
				text "Hello"
			}
		}
	`
	cr, err := Compile(src)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if len(cr.Bytecode) == 0 {
		t.Fatal("expected nonempty bytecode")
	}
	if cr.Bytecode[6]&0x01 != 0x01 {
		t.Errorf("flags byte = 0x%02x, expected styles bit set", cr.Bytecode[6])
	}
}

func TestCompileWithTone(t *testing.T) {
	src := `
		tone alert {
			frequency: 440hz
			duration: 200ms
			amplitude: 0.25
			waveform: sine
			channel: 0
		}
		stave test {
			text "Check"
			tone alert
		}
	`
	cr, err := Compile(src)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if cr.Bytecode[6]&0x02 != 0x02 {
		t.Errorf("flags byte = 0x%02x, expected tones bit set", cr.Bytecode[6])
	}
}

func TestCompileFullDashboard(t *testing.T) {
	src := `
		style dark_card {
			background: #1a1a2e
			padding-top: 16px
			padding-right: 16px
			padding-bottom: 16px
			padding-left: 16px
			border-radius: 8px
		}

		tone notify {
			frequency: 440hz
			duration: 100ms
			amplitude: 0.25
			waveform: sine
			channel: 0
		}

		safety bci_default {
			max-elements: 256
			max-depth: 16
			max-bytecode: 65536
			max-charge-density: 30.0
			max-charge-per-phase: 4.0
			max-frequency: 2500
			max-amplitude: 1.0
			shannon-k: 1.75
		}

		stave dashboard {
			column(style: dark_card) {
				heading(1) "Neural Status"
				separator
				row {
					metric "Heart Rate" "72 bpm"
					metric "Neural Load" "14%"
				}
				button(action: "calibrate") "Re-calibrate"
				tone notify
			}
		}
	`
	cr, err := Compile(src)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if len(cr.StaveNames) != 1 || cr.StaveNames[0] != "dashboard" {
		t.Errorf("stave names = %v", cr.StaveNames)
	}
	if len(cr.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", cr.Warnings)
	}

	text, err := disasm.Disassemble(cr.Bytecode)
	if err != nil {
		t.Fatalf("disasm failed: %v", err)
	}
	if !strings.Contains(text, "Neural Status") {
		t.Error("disassembly missing heading text")
	}
	if !strings.Contains(text, `STAVE "dashboard"`) {
		t.Error("disassembly missing stave name")
	}
}

func TestCompileRejectsOversizedInput(t *testing.T) {
	big := strings.Repeat("a", MaxInputBytes+1)
	_, err := Compile(big)
	if err == nil {
		t.Fatal("expected an error for oversized input")
	}
	if !strings.Contains(err.Error(), "input too large") {
		t.Errorf("error = %v, want mention of input size", err)
	}
}

func TestCompileErrorUnterminatedString(t *testing.T) {
	src := `stave test {
		text "unterminated
	}`
	if _, err := Compile(src); err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestCompileRejectsTaraViolation(t *testing.T) {
	src := `
		tone too_loud {
			frequency: 5000hz
			duration: 100ms
			amplitude: 1.0
			waveform: sine
			channel: 0
		}
		stave test {
			tone too_loud
		}
	`
	if _, err := Compile(src); err == nil {
		t.Fatal("expected a TARA violation for a 5000Hz tone over the default 2500Hz max")
	}
}

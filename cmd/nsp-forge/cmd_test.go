package main

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/sage-x-project/nsp-forge/forge/disasm"
)

const sampleStaves = `
stave main {
  column {
    text "hello"
  }
}
`

func execute(args ...string) (stdout, stderr string, err error) {
	var outBuf, errBuf bytes.Buffer
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestKeygenPrintsPublicKeysOnly(t *testing.T) {
	out, _, err := execute("keygen")
	if err != nil {
		t.Fatalf("keygen failed: %v", err)
	}
	if !strings.Contains(out, "kem_public_key:") || !strings.Contains(out, "dsa_public_key:") {
		t.Fatalf("keygen output missing expected fields: %s", out)
	}
}

func TestCompileAndDisasmRoundTrip(t *testing.T) {
	tmp := t.TempDir() + "/sample.staves"
	if err := writeOutput(tmp, []byte(sampleStaves)); err != nil {
		t.Fatalf("write sample source: %v", err)
	}

	bcPath := t.TempDir() + "/out.bc"
	_, stderr, err := execute("compile", "--in", tmp, "--out", bcPath)
	if err != nil {
		t.Fatalf("compile failed: %v (stderr=%s)", err, stderr)
	}

	bytecode, err := readInput(bcPath)
	if err != nil {
		t.Fatalf("read compiled bytecode: %v", err)
	}
	if len(bytecode) == 0 {
		t.Fatal("compiled bytecode is empty")
	}

	listing, err := disasm.Disassemble(bytecode)
	if err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	if !strings.Contains(listing, "main") {
		t.Errorf("disassembly missing stave name, got: %s", listing)
	}
}

func TestDisasmCommandMatchesLibrary(t *testing.T) {
	tmp := t.TempDir() + "/sample.staves"
	if err := writeOutput(tmp, []byte(sampleStaves)); err != nil {
		t.Fatalf("write sample source: %v", err)
	}
	bcPath := t.TempDir() + "/out.bc"
	if _, _, err := execute("compile", "--in", tmp, "--out", bcPath); err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	out, _, err := execute("disasm", "--in", bcPath)
	if err != nil {
		t.Fatalf("disasm command failed: %v", err)
	}
	if !strings.Contains(out, "main") {
		t.Errorf("disasm command output missing stave name: %s", out)
	}
}

func TestStatsReflectsCompiles(t *testing.T) {
	tmp := t.TempDir() + "/sample.staves"
	if err := writeOutput(tmp, []byte(sampleStaves)); err != nil {
		t.Fatalf("write sample source: %v", err)
	}
	if _, _, err := execute("compile", "--in", tmp, "--out", "-"); err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	out, _, err := execute("stats")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out, "compiles:") {
		t.Errorf("stats output missing compiles line: %s", out)
	}
}

func TestCompileRejectsInvalidSource(t *testing.T) {
	tmp := t.TempDir() + "/bad.staves"
	if err := writeOutput(tmp, []byte("stave { this is not valid")); err != nil {
		t.Fatalf("write bad source: %v", err)
	}

	_, _, err := execute("compile", "--in", tmp, "--out", "-")
	if err == nil {
		t.Fatal("expected compile of invalid source to fail")
	}
}

func TestSelftestEstablishesMatchingSessions(t *testing.T) {
	out, stderr, err := execute("handshake-selftest")
	if err != nil {
		t.Fatalf("handshake-selftest failed: %v (stderr=%s)", err, stderr)
	}
	if !strings.Contains(out, "handshake established") {
		t.Errorf("unexpected selftest output: %s", out)
	}
}

func TestKeygenKeysAreValidBase64(t *testing.T) {
	out, _, err := execute("keygen")
	if err != nil {
		t.Fatalf("keygen failed: %v", err)
	}
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "kem_public_key:") && !strings.HasPrefix(line, "dsa_public_key:") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			t.Fatalf("malformed output line: %q", line)
		}
		if _, err := base64.StdEncoding.DecodeString(strings.TrimSpace(parts[1])); err != nil {
			t.Errorf("key value is not valid base64: %q: %v", line, err)
		}
	}
}

package logger

import (
	"bytes"
	"strings"
	"testing"
)

// resetLogger restores default state between tests.
func resetLogger() {
	Init(Options{})
}

// --- Init Tests ---

func TestInit_DefaultLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	Info("visible info")
	Debug("hidden debug")

	out := buf.String()
	if !strings.Contains(out, "visible info") {
		t.Error("Info should be logged at the default level")
	}
	if strings.Contains(out, "hidden debug") {
		t.Error("Debug should not be logged at the default level")
	}
}

func TestInit_Debug(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	Debug("debug detail")

	if !strings.Contains(buf.String(), "debug detail") {
		t.Error("Debug should be logged when Debug=true")
	}
}

func TestInit_Quiet(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Quiet: true, Output: buf})
	defer resetLogger()

	Info("suppressed info")
	Warn("suppressed warn")
	Error("kept error")

	out := buf.String()
	if strings.Contains(out, "suppressed info") || strings.Contains(out, "suppressed warn") {
		t.Error("Info and Warn should not be logged when Quiet=true")
	}
	if !strings.Contains(out, "kept error") {
		t.Error("Error should still be logged when Quiet=true")
	}
}

func TestInit_QuietOverridesDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Quiet: true, Output: buf})
	defer resetLogger()

	Debug("debug message")
	Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Error("Quiet should take precedence over Debug")
	}
	if !strings.Contains(out, "error message") {
		t.Error("Error should be logged when Quiet=true")
	}
}

func TestInit_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Info("json message")

	out := buf.String()
	if !strings.Contains(out, "{") || !strings.Contains(out, `"msg"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
	if !strings.Contains(out, "json message") {
		t.Error("JSON output should contain the message")
	}
}

// --- Log Function Tests ---

func TestInfo_StructuredArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	Info("page fetched", "start", 4, "stubs", 7)

	out := buf.String()
	for _, want := range []string{"page fetched", "start", "4", "stubs", "7"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output %q", want, out)
		}
	}
}

func TestWith_CarriesAttributes(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	l := With("listing_id", "12345")
	if l == nil {
		t.Fatal("With() returned nil")
	}
	l.Info("detail fetched")

	out := buf.String()
	if !strings.Contains(out, "listing_id") || !strings.Contains(out, "12345") {
		t.Errorf("expected attributes in output %q", out)
	}
}

package logger

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
)

// capture redirects output for the duration of a test.
func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	if IsVerbose() {
		t.Fatal("expected verbose off")
	}
	SetVerbose(true)
	if !IsVerbose() {
		t.Fatal("expected verbose on")
	}
}

func TestLevels_Verbose(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("terms %v", []string{"multa"}) }, "[DEBUG] terms [multa]\n"},
		{"info", func() { Info("indexed %d chunks", 12) }, "[INFO] indexed 12 chunks\n"},
		{"warn", func() { Warn("no records in %s", "mbft.pdf") }, "[WARN] no records in mbft.pdf\n"},
		{"error", func() { Error("store closed") }, "[ERROR] store closed\n"},
		{"section", func() { Section("Batch Ingest") }, "\n=== Batch Ingest ===\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log()
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuietUnlessVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("x")
	Info("x")
	Warn("x")
	Section("x")
	Source("a.pdf").Warn("x")
	Timer("x")()
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	Error("ingest %s failed", "a.pdf")
	if got := buf.String(); got != "[ERROR] ingest a.pdf failed\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestSource_PrefixesOrigin(t *testing.T) {
	buf := capture(t, true)

	Source("https://www.gov.br/mbft").Info("indexed %d records", 3)

	if got := buf.String(); got != "[INFO] [https://www.gov.br/mbft] indexed 3 records\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestTimer(t *testing.T) {
	buf := capture(t, true)

	done := Timer("search %q", "multa")
	done()

	got := buf.String()
	if !strings.HasPrefix(got, `[DEBUG] search "multa" took `) {
		t.Errorf("unexpected output %q", got)
	}
}

func TestConcurrentWritesDoNotInterleave(t *testing.T) {
	buf := capture(t, true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Source("worker").Debug("line %d", i)
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("expected 20 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "[DEBUG] [worker] line ") {
			t.Errorf("mangled line %q", l)
		}
	}
}

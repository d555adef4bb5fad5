package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// CommandRunner lets tests stub the external pdftotext binary.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		slog.Error("exec failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"error", err,
		)
	} else {
		slog.Debug("exec ok",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"stdout_bytes", out.Len(),
		)
	}

	return out.Bytes(), errb.Bytes(), err
}

// TextExtractor turns raw PDF bytes into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (text string, pages int, err error)
}

// PdftotextExtractor shells out to poppler's pdftotext.
type PdftotextExtractor struct {
	binary string
	runner CommandRunner
}

func NewPdftotextExtractor(binary string) *PdftotextExtractor {
	if binary == "" {
		binary = "pdftotext"
	}
	return &PdftotextExtractor{binary: binary, runner: execRunner{}}
}

// NewPdftotextExtractorWithRunner is used by tests to inject a stub runner.
func NewPdftotextExtractorWithRunner(binary string, runner CommandRunner) *PdftotextExtractor {
	e := NewPdftotextExtractor(binary)
	e.runner = runner
	return e
}

func (e *PdftotextExtractor) ExtractText(ctx context.Context, data []byte) (string, int, error) {
	tmp, err := os.CreateTemp("", "contract-*.pdf")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", 0, fmt.Errorf("failed to write temp file: %w", err)
	}
	tmp.Close()

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.binary, "-layout", "-enc", "UTF-8", "-eol", "unix", tmp.Name(), "-")
	if err != nil {
		return "", 0, fmt.Errorf("pdftotext failed: %w (%s)", err, strings.TrimSpace(string(errb)))
	}

	text := string(out)
	// pdftotext separates pages with form feeds
	pages := 1 + strings.Count(text, "\f")
	return text, pages, nil
}

// FirstPage returns the text of the first page only.
func FirstPage(text string) string {
	if i := strings.IndexByte(text, '\f'); i >= 0 {
		return text[:i]
	}
	return text
}

package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner replays canned output and records the invocation.
type stubRunner struct {
	stdout []byte
	stderr []byte
	err    error

	name string
	args []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.name = name
	s.args = args
	return s.stdout, s.stderr, s.err
}

func TestExtractTextCountsPages(t *testing.T) {
	runner := &stubRunner{stdout: []byte("page one\fpage two\fpage three")}
	ex := NewPdftotextExtractorWithRunner("pdftotext", runner)

	text, pages, err := ex.ExtractText(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "page one\fpage two\fpage three", text)
	assert.Equal(t, 3, pages)

	assert.Equal(t, "pdftotext", runner.name)
	require.Len(t, runner.args, 7)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-eol", "unix"}, runner.args[:5])
	assert.Equal(t, "-", runner.args[6])

	// The temp file the runner was pointed at must be cleaned up.
	_, statErr := os.Stat(runner.args[5])
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractTextSinglePage(t *testing.T) {
	runner := &stubRunner{stdout: []byte("only page")}
	ex := NewPdftotextExtractorWithRunner("", runner)

	_, pages, err := ex.ExtractText(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
	assert.Equal(t, "pdftotext", runner.name)
}

func TestExtractTextCommandError(t *testing.T) {
	runner := &stubRunner{
		stderr: []byte("Syntax Error: Document stream is empty\n"),
		err:    errors.New("exit status 1"),
	}
	ex := NewPdftotextExtractorWithRunner("pdftotext", runner)

	_, _, err := ex.ExtractText(context.Background(), []byte("junk"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext failed")
	assert.Contains(t, err.Error(), "Document stream is empty")
}

func TestFirstPage(t *testing.T) {
	assert.Equal(t, "page one", FirstPage("page one\fpage two"))
	assert.Equal(t, "whole text", FirstPage("whole text"))
	assert.Equal(t, "", FirstPage(""))
	assert.Equal(t, "", FirstPage("\fsecond"))
}

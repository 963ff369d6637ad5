package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notes = "# Field Notes\n\nSome text.\n\n## 1. Introduction\n\nMore text.\n"

func TestRunSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field_notes.md")
	require.NoError(t, os.WriteFile(path, []byte(notes), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-file", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "outline")
}

func TestRunSingleFileFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken_scan.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 nothing"), 0o644))

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(context.Background(), []string{"-file", path}, &stdout, &stderr))
	assert.JSONEq(t, `{"title":"broken scan","outline":[]}`, stdout.String())
}

func TestRunExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte(notes), 0o644))

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(context.Background(), []string{"-file", path, "-explain"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "SIGNALS")
	assert.Contains(t, stdout.String(), "1. Introduction")
}

func TestRunBatch(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.md"), []byte(notes), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-input", in, "-output", out, "-workers", "2", "-budget", "5s"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	_, err := os.Stat(filepath.Join(out, "notes.json"))
	assert.NoError(t, err)
	assert.Contains(t, stderr.String(), `"msg":"processed"`)
}

func TestRunUsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"-nope"}, &stdout, &stderr))
	assert.Equal(t, 2, run(context.Background(), []string{"-explain"}, &stdout, &stderr))
	assert.Equal(t, 1, run(context.Background(), []string{"-workers", "0", "-file", "x.md"}, &stdout, &stderr))
	assert.Equal(t, 1, run(context.Background(), []string{"-profile", filepath.Join(t.TempDir(), "missing.yaml"), "-file", "x.md"}, &stdout, &stderr))
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `#Fields: date time cs-method cs-uri-stem sc-status time-taken
2023-01-01 00:00:01 GET /a 200 500
2023-01-01 00:00:02 POST /b 500 100
`

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI()
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage: burnout")

	code, _, stderr = runCLI("plot")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "plot"`)

	code, _, _ = runCLI("preview", "--help")
	assert.Equal(t, 0, code)

	code, _, _ = runCLI("parse", "--no-such-flag")
	assert.Equal(t, 2, code)
}

func TestRun_ParsePreviewChart(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "u_ex230101.log")
	require.NoError(t, os.WriteFile(logPath, []byte(sampleLog), 0644))
	seriesPath := filepath.Join(dir, "get.json")
	chartPath := filepath.Join(dir, "get.svg")

	code, stdout, stderr := runCLI("--log-level", "disabled", "parse", logPath, "-m", "GET", "-o", seriesPath)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Save parsed data to "+seriesPath)

	code, stdout, stderr = runCLI("preview", seriesPath, "-u", "s", "--log-level", "disabled")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "AvgDura(ms)")
	assert.Contains(t, stdout, "|        500 |")

	code, stdout, stderr = runCLI("--log-level=disabled", "chart", seriesPath, "-o", chartPath, "-t", "GET only")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Save chart to "+chartPath)
	assert.FileExists(t, chartPath)
}

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := runCLI("--log-level", "disabled", "parse", filepath.Join(dir, "missing.log"))
	assert.Equal(t, 3, code)
	assert.Contains(t, stderr, "APP_1001")

	code, _, stderr = runCLI("--log-level", "disabled", "preview", filepath.Join(dir, "missing.json"), "-u", "d")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "APP_1000")

	code, _, stderr = runCLI("--log-level", "disabled", "chart", "a.json", "b.json")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unexpected arguments")
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hengadev/flattenx"
)

const sampleInput = `{"id":1,"address":{"city":"Paris","zip":"75"},"tags":["a"],"note":null,"empty":""}`

// runCLI runs the command line with an .env path that does not exist, so the
// process environment is left alone unless a test asks otherwise.
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	if len(args) > 0 && args[0] == "convert" && !containsFlag(args, "-env") {
		args = append([]string{"convert", "-env", filepath.Join(t.TempDir(), "missing.env")}, args[1:]...)
	}
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func containsFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name || strings.HasPrefix(a, name+"=") {
			return true
		}
	}
	return false
}

func TestRunConvert(t *testing.T) {
	code, stdout, stderr := runCLI(t, sampleInput, "convert", "-indent", "0")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, `{"id":1,"address":{"city":"Paris","zip":"75"},"tags":["a"],"empty":""}`+"\n", stdout)
}

func TestRunConvertUnwrap(t *testing.T) {
	code, stdout, stderr := runCLI(t, sampleInput, "convert", "-indent", "0", "-unwrap", "address:addr_")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, `{"id":1,"addr_city":"Paris","addr_zip":"75","tags":["a"],"empty":""}`+"\n", stdout)
}

func TestRunConvertIndented(t *testing.T) {
	code, stdout, stderr := runCLI(t, `{"a":{"b":1}}`, "convert", "-unwrap", "a")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "{\n  \"b\": 1\n}\n", stdout)
}

func TestRunConvertYAML(t *testing.T) {
	code, stdout, stderr := runCLI(t, sampleInput, "convert", "-format", "yaml", "-unwrap", "address:addr_")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "id: 1\naddr_city: Paris\naddr_zip: \"75\"\ntags:\n  - a\nempty: \"\"\n", stdout)
}

func TestRunConvertFromFileWithConfig(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(inPath, []byte(sampleInput), 0644))

	configPath := filepath.Join(dir, "flattenx.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
output:
  format: json
  indent: 0
serialization:
  inclusion: non_empty
unwrap:
  - key: address
    suffix: _a
`), 0644))

	code, stdout, stderr := runCLI(t, "", "convert", "-config", configPath, "-in", inPath)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, `{"id":1,"city_a":"Paris","zip_a":"75","tags":["a"]}`+"\n", stdout)
}

func TestRunConvertLoadsEnvFile(t *testing.T) {
	t.Setenv(flattenx.EnvInclusion, "")
	require.NoError(t, os.Unsetenv(flattenx.EnvInclusion))

	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte(flattenx.EnvInclusion+"=always\n"), 0644))

	code, stdout, stderr := runCLI(t, `{"a":null}`, "convert", "-env", envPath, "-indent", "0")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, `{"a":null}`+"\n", stdout)
}

func TestRunConvertLogsAtConfiguredLevel(t *testing.T) {
	t.Setenv(flattenx.EnvLogLevel, "debug")

	code, stdout, stderr := runCLI(t, `{"a":1}`, "convert", "-indent", "0")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, `{"a":1}`+"\n", stdout)
	assert.Contains(t, stderr, `msg="operation completed"`)
	assert.Contains(t, stderr, "component=hook")
	assert.Contains(t, stderr, "operation=Encode")
}

func TestRunConvertQuietByDefault(t *testing.T) {
	t.Setenv(flattenx.EnvLogLevel, "")

	code, _, stderr := runCLI(t, `{"a":1}`, "convert")
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stderr)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "error")
	logger.Warn("dropped")
	logger.Error("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")

	buf.Reset()
	newLogger(&buf, "warning").Info("dropped")
	newLogger(&buf, "warning").Warn("kept")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestRunConvertErrors(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		expected string
	}{
		{name: "not an object", stdin: `[1,2]`, args: []string{"convert"}, expected: "input must be a JSON object"},
		{name: "unknown format", stdin: `{}`, args: []string{"convert", "-format", "xml"}, expected: "configuration validation failed"},
		{name: "duplicate unwrap", stdin: `{}`, args: []string{"convert", "-unwrap", "a", "-unwrap", "a"}, expected: "configuration validation failed"},
		{name: "empty unwrap key", stdin: `{}`, args: []string{"convert", "-unwrap", ":p_"}, expected: "key cannot be empty"},
		{name: "missing config", stdin: `{}`, args: []string{"convert", "-config", "/nonexistent/flattenx.yaml"}, expected: "config file not found"},
		{name: "missing input", stdin: `{}`, args: []string{"convert", "-in", "/nonexistent/in.json"}, expected: "opening input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.stdin, tt.args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.expected)
		})
	}
}

func TestRunInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flattenx.yaml")

	code, stdout, stderr := runCLI(t, "", "init", "-path", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Configuration file created!")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)

	code, _, stderr = runCLI(t, "", "init", "-path", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "already exists")

	code, _, stderr = runCLI(t, "", "init", "-path", path, "-force")
	assert.Equal(t, 0, code, stderr)
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, flattenx.VersionInfo()+"\n", stdout)
}

func TestRunUsage(t *testing.T) {
	code, _, stderr := runCLI(t, "")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Usage: flattenx <command>")

	code, _, stderr = runCLI(t, "", "frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Unknown command: frobnicate")

	code, _, stderr = runCLI(t, "", "convert", "-h")
	assert.Equal(t, 1, code)
	assert.NotContains(t, stderr, "Error:")
	assert.Contains(t, stderr, "-unwrap")
}

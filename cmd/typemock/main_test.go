package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

const demoPath = "../../testdata/demo.ts"

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := rootCommand()
	cmd.Writer = &out
	cmd.ErrWriter = &errOut
	cmd.Reader = strings.NewReader(stdin)
	cmd.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	err := cmd.Run(context.Background(), append([]string{"typemock"}, args...))

	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func exitCode(t *testing.T, err error) int {
	t.Helper()

	var coder cli.ExitCoder

	require.ErrorAs(t, err, &coder)

	return coder.ExitCode()
}

func TestShow(t *testing.T) {
	t.Parallel()

	res := run(t, "", "show", "--format", "json", demoPath, "Address")
	require.NoError(t, res.err)

	var got struct {
		Name   string `json:"name"`
		Fields []struct {
			Name       string `json:"name"`
			IsRequired bool   `json:"isRequired"`
		} `json:"fields"`
	}

	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, "Address", got.Name)
	require.Len(t, got.Fields, 4)
	assert.Equal(t, "zipCode", got.Fields[3].Name)
	assert.False(t, got.Fields[3].IsRequired)
}

func TestShow_Tree(t *testing.T) {
	t.Parallel()

	res := run(t, "", "show", demoPath, "UserProfile")
	require.NoError(t, res.err)

	assert.True(t, strings.HasPrefix(res.stdout, "UserProfile  A user profile."))
	assert.Contains(t, res.stdout, "├─ lastLoginAt?: string")
	assert.Contains(t, res.stdout, "   ╰─ language: string")
}

func TestShow_All(t *testing.T) {
	t.Parallel()

	res := run(t, "", "show", "--all", "--format", "yaml", demoPath)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "- name: Address")
	assert.Contains(t, res.stdout, "- name: UserTag")
	assert.Contains(t, res.stdout, "- name: UserProfile")
}

func TestShow_NotFound(t *testing.T) {
	t.Parallel()

	res := run(t, "", "show", demoPath, "Missing")
	require.Error(t, res.err)
	assert.Equal(t, 1, exitCode(t, res.err))
	assert.Contains(t, res.err.Error(), `declaration "Missing" not found in `+demoPath)
	assert.Contains(t, res.err.Error(), "typemock list")
}

func TestShow_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing name", []string{"--source", demoPath, "show"}, "missing declaration name"},
		{"too many", []string{"show", demoPath, "A", "B"}, "too many arguments"},
		{"unknown format", []string{"show", "--format", "xml", demoPath, "Address"}, "unknown format"},
		{"unreadable", []string{"show", "nope/missing.ts", "Address"}, "cannot read source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := run(t, "", tt.args...)
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tt.want)
		})
	}
}

func TestSourceFlag(t *testing.T) {
	t.Parallel()

	res := run(t, "", "--source", demoPath, "show", "UserTag")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "UserTag  A user tag.")
}

func TestConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	abs, err := filepath.Abs(demoPath)
	require.NoError(t, err)

	logFile := filepath.Join(dir, "typemock.log")
	config := "source: " + abs + "\nformat: json\nlog:\n  level: debug\n  file: " + logFile + "\n"
	configPath := filepath.Join(dir, ".typemock.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o600))

	res := run(t, "", "--config", configPath, "show", "UserTag")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "{"))
	assert.Contains(t, res.stdout, `"name": "UserTag"`)

	logged, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "located declaration")
	assert.Contains(t, res.stderr, "located declaration")
}

func TestConfiguredSourceWithoutFile(t *testing.T) {
	t.Parallel()

	abs, err := filepath.Abs(demoPath)
	require.NoError(t, err)

	configPath := filepath.Join(t.TempDir(), ".typemock.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("source: "+abs+"\nformat: tree\n"), 0o600))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"show", []string{"show", "Address"}, "Address  A postal address.\n"},
		{"show all", []string{"show", "--all"}, "UserProfile  A user profile."},
		{"jsonschema", []string{"jsonschema", "UserTag"}, `"title": "UserTag"`},
		{"prompt", []string{"prompt", "UserTag"}, "Interface name: UserTag\n"},
		{"fmt", []string{"fmt"}, "export interface UserTag {\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := run(t, "", append([]string{"--config", configPath}, tt.args...)...)
			require.NoError(t, res.err)
			assert.Contains(t, res.stdout, tt.want)
		})
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	res := run(t, "", "list", demoPath)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "  Address (4 fields)  A postal address.\n")
	assert.Contains(t, res.stdout, "  UserProfile (14 fields)  A user profile. Basic information, preferences and related data.\n")

	res = run(t, "", "list", "--format", "json", demoPath)
	require.NoError(t, res.err)

	var listings []struct {
		File       string `json:"file"`
		Interfaces []struct {
			Name       string `json:"name"`
			FieldCount int    `json:"fieldCount"`
		} `json:"interfaces"`
	}

	require.NoError(t, json.Unmarshal([]byte(res.stdout), &listings))
	require.Len(t, listings, 1)
	require.Len(t, listings[0].Interfaces, 3)
	assert.Equal(t, 3, listings[0].Interfaces[1].FieldCount)
}

func TestJSONSchema(t *testing.T) {
	t.Parallel()

	res := run(t, "", "jsonschema", demoPath, "UserTag")
	require.NoError(t, res.err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, "UserTag", doc["title"])
	assert.Equal(t, []any{"id", "name", "color"}, doc["required"])
}

func TestValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"id": 1, "name": "n", "color": "#fff"}`), 0o600))

	res := run(t, "", "validate", demoPath, "UserTag", good)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "valid UserTag")

	res = run(t, `{"id": "x", "name": "n"}`, "validate", demoPath, "UserTag", "-")
	require.Error(t, res.err)
	assert.Equal(t, 1, exitCode(t, res.err))
	assert.Contains(t, res.stdout, "/id:")
	assert.Contains(t, res.stdout, "color")

	res = run(t, "", "validate", demoPath, "UserTag")
	require.Error(t, res.err)
}

func TestPrompt(t *testing.T) {
	t.Parallel()

	res := run(t, "", "prompt", demoPath, "Address")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "Generate one mock object"))
	assert.Contains(t, res.stdout, `"name": "zipCode"`)

	res = run(t, "", "prompt", "--count", "3", "--system", demoPath, "Address")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "You are a professional mock data generator."))
	assert.Contains(t, res.stdout, "Generate 3 different mock objects")
}

func TestFmt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "messy.ts")
	require.NoError(t, os.WriteFile(path, []byte("export   interface A{x:Array<string>;y?:number}"), 0o600))

	res := run(t, "", "fmt", path)
	require.NoError(t, res.err)
	assert.Equal(t, "export interface A {\n  x: string[];\n  y?: number;\n}\n", res.stdout)
}

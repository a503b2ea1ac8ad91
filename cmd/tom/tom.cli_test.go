package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lightframe/go-tom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test data constants
const (
	testTemplateContent = "Hello, {{ user|capitalize }}!"
	testDataJSON        = `{"user": "alice"}`
	testDataYAML        = "user: bob\n"
	testExpectedOutput  = "Hello, Alice!"
	testInvalidContent  = "Hello, {{ user"
)

// setupTestData creates test files in a temp directory
func setupTestData(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	files := map[string]string{
		"template.html":     testTemplateContent,
		"data.json":         testDataJSON,
		"data.yaml":         testDataYAML,
		"invalid.html":      testInvalidContent,
		"views/page.html":   `{% extends "base.html" %}{% block main %}{{ user }}@{{ / }}{% endblock %}`,
		"builtin/base.html": "<main>{% block main %}{% endblock %}</main>",
	}
	for name, body := range files {
		path := filepath.Join(tmpDir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), FilePermissions))
	}

	return tmpDir
}

func runCLI(args []string, stdin string) (int, string, string) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(args, strings.NewReader(stdin), stdout, stderr)
	return code, stdout.String(), stderr.String()
}

// ==================== run() dispatch tests ====================

func TestRun_Dispatch(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		exitCode int
		contains string
	}{
		{"no args shows help", nil, ExitCodeSuccess, CmdNameRender},
		{"help command", []string{CmdNameHelp}, ExitCodeSuccess, CLIName},
		{"unknown command", []string{"unknown"}, ExitCodeUsageError, ErrMsgUnknownCommand},
		{"version command", []string{CmdNameVersion}, ExitCodeSuccess, CLIName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCLI(tt.args, "")
			assert.Equal(t, tt.exitCode, code)
			assert.Contains(t, stdout, tt.contains)
		})
	}
}

// ==================== Help command tests ====================

func TestHelp_Commands(t *testing.T) {
	tests := []struct {
		cmd      string
		expected string
	}{
		{CmdNameRender, HelpRenderUsage},
		{CmdNameValidate, HelpValidateUsage},
		{CmdNameTokens, HelpTokensUsage},
		{CmdNameVersion, HelpVersionUsage},
		{CmdNameHelp, HelpHelpUsage},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			assert.Equal(t, ExitCodeSuccess, runHelp([]string{tt.cmd}, stdout))
			assert.Contains(t, stdout.String(), tt.expected)
		})
	}
}

// ==================== Version command tests ====================

func TestVersion_TextFormat(t *testing.T) {
	code, stdout, _ := runCLI([]string{CmdNameVersion}, "")

	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "go-tom version")
	assert.Contains(t, stdout, "Go: ")
}

func TestVersion_JSONFormat(t *testing.T) {
	code, stdout, _ := runCLI([]string{CmdNameVersion, "-F", OutputFormatJSON}, "")
	require.Equal(t, ExitCodeSuccess, code)

	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestVersion_InvalidFormat(t *testing.T) {
	code, _, stderr := runCLI([]string{CmdNameVersion, "--format", "xml"}, "")

	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, ErrMsgInvalidFormat)
}

// ==================== Render command tests ====================

func TestRender_Sources(t *testing.T) {
	dir := setupTestData(t)
	templatePath := filepath.Join(dir, "template.html")

	tests := []struct {
		name     string
		args     []string
		stdin    string
		expected string
	}{
		{"data string", []string{"-t", templatePath, "-d", testDataJSON}, "", testExpectedOutput},
		{"json data file", []string{"--template", templatePath, "--data-file", filepath.Join(dir, "data.json")}, "", testExpectedOutput},
		{"yaml data file", []string{"-t", templatePath, "-f", filepath.Join(dir, "data.yaml")}, "", "Hello, Bob!"},
		{"stdin", []string{"-t", InputSourceStdin, "-d", testDataJSON}, testTemplateContent, testExpectedOutput},
		{"no data", []string{"-t", templatePath}, "", "Hello, !"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(append([]string{CmdNameRender}, tt.args...), tt.stdin)
			require.Equal(t, ExitCodeSuccess, code, stderr)
			assert.Equal(t, tt.expected, stdout)
		})
	}
}

func TestRender_ToFile(t *testing.T) {
	dir := setupTestData(t)
	outPath := filepath.Join(dir, "out.html")

	code, stdout, _ := runCLI([]string{CmdNameRender, "-t", filepath.Join(dir, "template.html"), "-d", testDataJSON, "-o", outPath}, "")
	require.Equal(t, ExitCodeSuccess, code)
	assert.Empty(t, stdout)

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, testExpectedOutput, string(content))
}

func TestRender_NamedTemplateWithRoots(t *testing.T) {
	dir := setupTestData(t)

	code, stdout, stderr := runCLI([]string{
		CmdNameRender,
		"-n", "page.html",
		"-r", filepath.Join(dir, "views"),
		"-b", filepath.Join(dir, "builtin"),
		"--site-root", "/app/",
		"-d", `{"user": "<eve>"}`,
	}, "")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "<main>&lt;eve&gt;@/app/</main>", stdout)

	code, stdout, stderr = runCLI([]string{
		CmdNameRender,
		"-n", "page.html",
		"-r", filepath.Join(dir, "views"),
		"-b", filepath.Join(dir, "builtin"),
		"--no-escape",
		"-d", `{"user": "<eve>"}`,
	}, "")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "<main><eve>@/</main>", stdout)
}

func TestRender_ConfigFile(t *testing.T) {
	dir := setupTestData(t)
	configPath := filepath.Join(dir, "tom.yaml")
	config := "template_root: " + filepath.Join(dir, "views") + "\n" +
		"builtin_root: " + filepath.Join(dir, "builtin") + "\n" +
		"site_root: /cfg/\n" +
		"cache:\n  enabled: true\n"
	require.NoError(t, os.WriteFile(configPath, []byte(config), FilePermissions))

	code, stdout, stderr := runCLI([]string{CmdNameRender, "-n", "page.html", "-c", configPath, "-d", testDataJSON}, "")
	require.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Equal(t, "<main>alice@/cfg/</main>", stdout)
}

func TestRender_Env(t *testing.T) {
	t.Setenv("TOM_CLI_TEST_MODE", "dev")

	code, stdout, _ := runCLI([]string{CmdNameRender, "-t", "-", "--env"}, "{{ ENV.TOM_CLI_TEST_MODE }}")
	require.Equal(t, ExitCodeSuccess, code)
	assert.Equal(t, "dev", stdout)

	code, stdout, _ = runCLI([]string{CmdNameRender, "-t", "-"}, "{{ ENV.TOM_CLI_TEST_MODE }}")
	require.Equal(t, ExitCodeSuccess, code)
	assert.Empty(t, stdout)
}

func TestRender_Verbose(t *testing.T) {
	code, _, stderr := runCLI([]string{CmdNameRender, "-t", "-", "-v"}, "x")
	require.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stderr, LogMsgRenderDone)
	assert.Contains(t, stderr, tom.LogMsgCompileEnd)
}

func TestRender_Failures(t *testing.T) {
	dir := setupTestData(t)
	templatePath := filepath.Join(dir, "template.html")

	tests := []struct {
		name     string
		args     []string
		exitCode int
		contains string
	}{
		{"missing template", []string{"-d", testDataJSON}, ExitCodeUsageError, ErrMsgMissingTemplate},
		{"template and name", []string{"-t", templatePath, "-n", "page.html"}, ExitCodeUsageError, ErrMsgTemplateAndName},
		{"invalid json", []string{"-t", templatePath, "-d", "{bad"}, ExitCodeInputError, ErrMsgInvalidData},
		{"data file not found", []string{"-t", templatePath, "-f", filepath.Join(dir, "nope.json")}, ExitCodeInputError, ErrMsgInvalidData},
		{"template not found", []string{"-t", filepath.Join(dir, "nope.html")}, ExitCodeInputError, ErrMsgReadFileFailed},
		{"unterminated variable", []string{"-t", filepath.Join(dir, "invalid.html")}, ExitCodeError, ErrMsgExecuteFailed},
		{"named template without roots", []string{"-n", "page.html"}, ExitCodeError, ErrMsgExecuteFailed},
		{"config not found", []string{"-t", templatePath, "-c", filepath.Join(dir, "nope.yaml")}, ExitCodeError, ErrMsgEngineFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(append([]string{CmdNameRender}, tt.args...), "")
			assert.Equal(t, tt.exitCode, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.contains)
		})
	}
}

// ==================== Validate command tests ====================

func TestValidate_ValidTemplate(t *testing.T) {
	dir := setupTestData(t)

	code, stdout, _ := runCLI([]string{CmdNameValidate, "-t", filepath.Join(dir, "template.html")}, "")
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, ValidationTextSuccess)
}

func TestValidate_InvalidTemplate(t *testing.T) {
	code, stdout, _ := runCLI([]string{CmdNameValidate, "-t", "-"}, "{{ name|captalize }}")

	assert.Equal(t, ExitCodeValidationError, code)
	assert.Contains(t, stdout, ValidationTextIssueHeader)
	assert.Contains(t, stdout, "["+SeverityNameError+"]")
	assert.Contains(t, stdout, "did you mean: capitalize")
	assert.Contains(t, stdout, "1 error(s), 0 warning(s)")
}

func TestValidate_Strict(t *testing.T) {
	code, stdout, _ := runCLI([]string{CmdNameValidate, "-t", "-"}, "{% debug x %}")
	assert.Equal(t, ExitCodeSuccess, code)
	assert.Contains(t, stdout, "["+SeverityNameWarning+"]")

	code, _, _ = runCLI([]string{CmdNameValidate, "-t", "-", "--strict"}, "{% debug x %}")
	assert.Equal(t, ExitCodeValidationError, code)
}

func TestValidate_JSONFormat(t *testing.T) {
	code, stdout, _ := runCLI([]string{CmdNameValidate, "-t", "-", "-F", OutputFormatJSON}, "ok\n{% if x frobs 1 %}{% endif %}")
	assert.Equal(t, ExitCodeValidationError, code)

	var output validationOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &output))
	assert.False(t, output.Valid)
	require.Len(t, output.Issues, 1)
	assert.Equal(t, string(tom.KindInvalidComparison), output.Issues[0].Kind)
	assert.Equal(t, SeverityNameError, output.Issues[0].Severity)
	assert.Equal(t, 2, output.Issues[0].Line)
	assert.Equal(t, "if", output.Issues[0].Tag)
}

func TestValidate_NamedTemplate(t *testing.T) {
	dir := setupTestData(t)

	code, stdout, stderr := runCLI([]string{
		CmdNameValidate, "-n", "page.html",
		"-r", filepath.Join(dir, "views"),
		"-b", filepath.Join(dir, "builtin"),
	}, "")
	assert.Equal(t, ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, ValidationTextSuccess)

	code, _, stderr = runCLI([]string{CmdNameValidate, "-n", "missing.html", "-r", filepath.Join(dir, "views")}, "")
	assert.Equal(t, ExitCodeError, code)
	assert.Contains(t, stderr, ErrMsgParseTemplateFailed)
}

func TestValidate_InvalidFlags(t *testing.T) {
	code, _, stderr := runCLI([]string{CmdNameValidate, "-t", "-", "-F", "xml"}, "")
	assert.Equal(t, ExitCodeUsageError, code)
	assert.Contains(t, stderr, ErrMsgInvalidFormat)

	code, _, _ = runCLI([]string{CmdNameValidate}, "")
	assert.Equal(t, ExitCodeUsageError, code)
}

// ==================== Tokens command tests ====================

func TestTokens_TextFormat(t *testing.T) {
	code, stdout, _ := runCLI([]string{CmdNameTokens, "-t", "-"}, "a {{ b }}")
	require.Equal(t, ExitCodeSuccess, code)

	lines := strings.Split(strings.TrimSpace(stdout), FmtNewline)
	require.Len(t, lines, 2)
	assert.Equal(t, "1:1\tTEXT\t\"a \"", lines[0])
	assert.Equal(t, "1:3\tVARIABLE\t\"{{ b }}\"", lines[1])
}

func TestTokens_JSONFormat(t *testing.T) {
	code, stdout, _ := runCLI([]string{CmdNameTokens, "-t", "-", "-F", OutputFormatJSON}, "{% if a equals 1 %}{# c #}")
	require.Equal(t, ExitCodeSuccess, code)

	var tokens []tokenOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &tokens))
	require.Len(t, tokens, 2)
	assert.Equal(t, "TAG", tokens[0].Kind)
	assert.Equal(t, "COMMENT", tokens[1].Kind)
	assert.Equal(t, "{# c #}", tokens[1].Raw)
}

func TestTokens_Failures(t *testing.T) {
	code, _, stderr := runCLI([]string{CmdNameTokens, "-t", "-"}, "{{ b")
	assert.Equal(t, ExitCodeValidationError, code)
	assert.Contains(t, stderr, ErrMsgParseTemplateFailed)

	code, _, _ = runCLI([]string{CmdNameTokens}, "")
	assert.Equal(t, ExitCodeUsageError, code)
}

// ==================== Input helpers ====================

func TestLoadData(t *testing.T) {
	dir := t.TempDir()
	emptyYAML := filepath.Join(dir, "empty.yml")
	require.NoError(t, os.WriteFile(emptyYAML, nil, FilePermissions))

	data, err := loadData("", emptyYAML)
	require.NoError(t, err)
	assert.Empty(t, data)

	data, err = loadData("", "")
	require.NoError(t, err)
	assert.NotNil(t, data)

	data, err = loadData(`{"a": {"b": [1, 2]}}`, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"b": []any{float64(1), float64(2)}}, data["a"])
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}

	logger, err := newLogger("", false, buf)
	require.NoError(t, err)
	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger, err = newLogger("info", false, buf)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.NotContains(t, buf.String(), "hidden")

	_, err = newLogger("loud", false, buf)
	assert.Error(t, err)
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/lightframe/go-tom"
	"go.uber.org/zap"
)

// validateConfig holds parsed validate command configuration
type validateConfig struct {
	engineFlags
	format string
	strict bool
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid  bool                    `json:"valid"`
	Issues []validationIssueOutput `json:"issues,omitempty"`
}

type validationIssueOutput struct {
	Severity    string   `json:"severity"`
	Kind        string   `json:"kind"`
	Message     string   `json:"message"`
	Template    string   `json:"template,omitempty"`
	Line        int      `json:"line"`
	Column      int      `json:"column"`
	Tag         string   `json:"tag,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseValidateFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	target := cfg.templateName
	if target == "" {
		source, err := readInput(cfg.templatePath, stdin)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
			return ExitCodeInputError
		}
		target = string(source)
	}

	engine, _, logger, err := cfg.build(stderr)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeError
	}

	result, err := engine.Validate(context.Background(), target)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParseTemplateFailed, err)
		return ExitCodeError
	}
	logger.Debug(LogMsgValidateDone, zap.Int(LogFieldIssues, len(result.Issues())))

	if cfg.format == OutputFormatJSON {
		return outputValidationJSON(result, cfg.strict, stdout)
	}
	return outputValidationText(result, cfg.strict, stdout)
}

func parseValidateFlags(args []string) (*validateConfig, error) {
	fs := flag.NewFlagSet(CmdNameValidate, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &validateConfig{}
	cfg.register(fs)
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.BoolVar(&cfg.strict, FlagStrictMode, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.validateSource(); err != nil {
		return nil, err
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func outputValidationText(result *tom.ValidationResult, strict bool, stdout io.Writer) int {
	issues := result.Issues()
	errs := result.Errors()
	warnings := result.Warnings()

	if len(issues) == 0 {
		fmt.Fprintln(stdout, ValidationTextSuccess)
		return ExitCodeSuccess
	}

	fmt.Fprintln(stdout, ValidationTextIssueHeader)
	for _, issue := range issues {
		fmt.Fprintf(stdout, ValidationTextIssueFormat+FmtNewline,
			severityToName(issue.Severity), issue.Message, issue.Position.Line, issue.Position.Column)
		if len(issue.Suggestions) > 0 {
			fmt.Fprintf(stdout, ValidationTextSuggestions+FmtNewline, strings.Join(issue.Suggestions, SuggestionSep))
		}
	}

	fmt.Fprintf(stdout, ValidationTextErrorSummary+FmtNewline, len(errs), len(warnings))

	if len(errs) > 0 || (strict && len(warnings) > 0) {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}

func outputValidationJSON(result *tom.ValidationResult, strict bool, stdout io.Writer) int {
	issues := result.Issues()

	output := validationOutput{
		Valid:  result.IsValid() && (!strict || !result.HasWarnings()),
		Issues: make([]validationIssueOutput, 0, len(issues)),
	}

	for _, issue := range issues {
		output.Issues = append(output.Issues, validationIssueOutput{
			Severity:    severityToName(issue.Severity),
			Kind:        string(issue.Kind),
			Message:     issue.Message,
			Template:    issue.Template,
			Line:        issue.Position.Line,
			Column:      issue.Position.Column,
			Tag:         issue.TagName,
			Suggestions: issue.Suggestions,
		})
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))

	if !output.Valid {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}

func severityToName(s tom.ValidationSeverity) string {
	if s == tom.SeverityWarning {
		return SeverityNameWarning
	}
	return SeverityNameError
}

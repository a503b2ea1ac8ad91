package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/lightframe/go-tom"
)

// tokensConfig holds parsed tokens command configuration
type tokensConfig struct {
	templatePath string
	format       string
}

type tokenOutput struct {
	Kind   string `json:"kind"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Raw    string `json:"raw"`
}

func runTokens(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseTokensFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	nodes, err := tom.MustNew().Tokenize(string(source))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParseTemplateFailed, err)
		return ExitCodeValidationError
	}

	if cfg.format == OutputFormatJSON {
		output := make([]tokenOutput, 0, len(nodes))
		for _, n := range nodes {
			output = append(output, tokenOutput{
				Kind:   n.Kind.String(),
				Line:   n.Pos.Line,
				Column: n.Pos.Column,
				Raw:    n.Raw,
			})
		}
		jsonBytes, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	for _, n := range nodes {
		fmt.Fprintf(stdout, TokenTextFormat+FmtNewline, n.Pos.Line, n.Pos.Column, n.Kind, n.Raw)
	}
	return ExitCodeSuccess
}

func parseTokensFlags(args []string) (*tokensConfig, error) {
	fs := flag.NewFlagSet(CmdNameTokens, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &tokensConfig{}
	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.templatePath == "" {
		return nil, errMissingTemplate
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

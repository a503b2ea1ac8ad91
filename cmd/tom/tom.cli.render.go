package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/lightframe/go-tom"
	"go.uber.org/zap"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	engineFlags
	dataJSON     string
	dataFilePath string
	outputPath   string
	env          bool
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	data, err := loadData(cfg.dataJSON, cfg.dataFilePath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
		return ExitCodeInputError
	}

	engine, engineCfg, logger, err := cfg.build(stderr)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeError
	}
	logger.Debug(LogMsgDataLoaded, zap.Int(LogFieldKeys, len(data)))

	renderCtx := engineCfg.NewContext(data)
	if cfg.env {
		renderCtx.WithRequest(tom.Request{Env: environ()})
		logger.Debug(LogMsgEnvInjected)
	}

	ctx := context.Background()
	var result string
	if cfg.templateName != "" {
		result, err = engine.CompileFile(ctx, cfg.templateName, renderCtx)
	} else {
		source, readErr := readInput(cfg.templatePath, stdin)
		if readErr != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, readErr)
			return ExitCodeInputError
		}
		result, err = engine.CompileString(ctx, string(source), renderCtx)
	}
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgExecuteFailed, err)
		return ExitCodeError
	}

	if err := writeOutput(cfg.outputPath, []byte(result), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}
	logger.Debug(LogMsgRenderDone, zap.Int(LogFieldOutputBytes, len(result)))

	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &renderConfig{}
	cfg.register(fs)
	fs.StringVar(&cfg.dataJSON, FlagData, "", "")
	fs.StringVar(&cfg.dataJSON, FlagDataShort, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFileShort, "", "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.BoolVar(&cfg.env, FlagEnv, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.validateSource(); err != nil {
		return nil, err
	}

	return cfg, nil
}

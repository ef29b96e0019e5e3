package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/resistconv/internal/config"
	"github.com/dgallion1/resistconv/internal/convert"
	"github.com/spf13/cobra"
)

// Process exit statuses. exitFailure is -1, reported as 255 by POSIX shells.
const (
	exitOK      = 0
	exitFailure = -1
	exitUsage   = 2
)

// exitError carries a failure that has already been logged.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

type app struct {
	cfg config.Config
	log *slog.Logger
}

// execute runs the command line and maps its outcome to an exit status.
// stdout carries only converted data; logs and diagnostics go to stderr.
func execute(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return exitFailure
	}

	a := &app{
		cfg: cfg,
		log: slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})),
	}

	cmd := newRootCmd(a)
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err = cmd.ExecuteContext(context.Background())
	if err == nil {
		return exitOK
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	fmt.Fprintf(stderr, "Error: %v\n\n%s", err, cmd.UsageString())
	return exitUsage
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resistconv [input]",
		Short: "Print an article/resistance JSON list as semicolon-separated CSV",
		Long: `resistconv reads a JSON array of [article, resistance] records and prints
them to stdout as "article;resistance" lines under a fixed header.

The input defaults to ` + convert.DefaultInput + ` (override with RESISTCONV_INPUT).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.InputPath
			if len(args) == 1 {
				path = args[0]
			}
			return a.convert(path, cmd.OutOrStdout())
		},
	}
	cmd.AddCommand(newServeCmd(a))
	return cmd
}

func (a *app) convert(path string, stdout io.Writer) error {
	res, err := convert.File(path, stdout, convert.Options{Encoding: a.cfg.InputEncoding})
	if err != nil {
		a.log.Error("conversion failed", "input", path, "code", convert.Code(err), "error", err)
		return &exitError{code: exitFailure, err: err}
	}
	a.log.Debug("conversion complete", "input", path, "rows", res.Rows, "bytes", res.Bytes)
	return nil
}

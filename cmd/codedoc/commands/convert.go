package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/codedoc/internal/batch"
	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

// ConvertCmd implements the 'convert' command.
type ConvertCmd struct {
	ConversionFlags `embed:""`

	Output       string `short:"o" help:"Write the page to this file (single input only)" placeholder:"FILE"`
	ValidateOnly bool   `name:"validate-only" help:"Check structured data without writing output"`
}

func (c *ConvertCmd) Run(g *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(ctx, g, root)
}

func (c *ConvertCmd) run(ctx context.Context, g *Global, root *CLI) error {
	s, err := newSession(root, g, &c.ConversionFlags, batch.OutputOptions{File: c.Output}, c.ValidateOnly)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	sources, err := batch.Discover(c.Inputs, s.discover)
	if err != nil {
		return err
	}

	sum, runErr := s.runner.Run(ctx, sources, s.options)
	if sum == nil {
		return runErr
	}
	s.writeMetrics()

	if c.ValidateOnly {
		reportValidation(root.stdout, sum, root.Quiet)
	}
	reportSummary(root.stderr, sum, root.Quiet)
	return summaryError(sum, runErr)
}

// summaryError turns a finished run into the command's error. A single input
// returns its own classified error so the message names the failing stage.
func summaryError(sum *batch.Summary, runErr error) error {
	if runErr != nil {
		return ferrors.WrapError(runErr, ferrors.CategoryRuntime, "conversion interrupted").
			WithContext("canceled", sum.Canceled).
			Build()
	}
	if sum.OK() {
		return nil
	}
	if len(sum.Results) == 1 {
		if err := sum.FirstError(); err != nil {
			return err
		}
	}
	if sum.Failed > 0 {
		return ferrors.NewError(ferrors.CategoryRuntime, fmt.Sprintf("%d of %d files failed", sum.Failed, len(sum.Results))).
			WithCause(sum.FirstError()).
			Build()
	}
	return ferrors.ValidationError(fmt.Sprintf("%d of %d files have invalid structured data", sum.Invalid, len(sum.Results))).
		Build()
}

// reportValidation lists every converted file; quiet lists invalid ones only.
func reportValidation(w io.Writer, sum *batch.Summary, quiet bool) {
	for _, r := range sum.Results {
		switch {
		case r.Status != batch.StatusConverted:
			continue
		case r.Valid:
			if quiet {
				continue
			}
			_, _ = fmt.Fprintf(w, "valid    %s (%s)\n", r.Source.Path, r.Format)
		default:
			_, _ = fmt.Fprintf(w, "invalid  %s (%s)\n", r.Source.Path, r.Format)
			for _, msg := range r.ValidationErrors {
				_, _ = fmt.Fprintf(w, "         %s\n", msg)
			}
		}
	}
}

// reportSummary prints failures and a one-line tally; quiet drops the tally.
func reportSummary(w io.Writer, sum *batch.Summary, quiet bool) {
	for _, r := range sum.Failures() {
		_, _ = fmt.Fprintf(w, "failed   %s: %v\n", r.Source.Path, r.Err)
	}
	if quiet {
		return
	}
	parts := []string{
		fmt.Sprintf("%s processed", humanize.Comma(int64(sum.Processed))),
		fmt.Sprintf("%d failed", sum.Failed),
		fmt.Sprintf("%d skipped", sum.Skipped),
	}
	if sum.Invalid > 0 {
		parts = append(parts, fmt.Sprintf("%d invalid", sum.Invalid))
	}
	if sum.Canceled > 0 {
		parts = append(parts, fmt.Sprintf("%d canceled", sum.Canceled))
	}
	_, _ = fmt.Fprintf(w, "%s in %s (run %s)\n", strings.Join(parts, ", "), sum.Duration.Round(time.Millisecond), sum.RunID)
}

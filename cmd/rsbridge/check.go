package main

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/rsbridge/app"
	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/ludo-technologies/rsbridge/service"
	"github.com/spf13/cobra"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

func checkCmd() *cobra.Command {
	flags := &requestFlags{}
	var failOn string

	cmd := &cobra.Command{
		Use:   "check [solution]",
		Short: "Quality gate for CI/CD pipelines",
		Long: `Ingest the reports of a solution and fail when violations at or above a
severity are found.

Exit codes:
  0 - No violation at or above --fail-on
  1 - Violations found
  2 - Ingestion error (solution or report not found, malformed report, etc.)

Examples:
  # Fail on major and critical violations
  rsbridge check App.sln

  # Fail on anything
  rsbridge check App.sln --fail-on info

  # JSON output for machine parsing
  rsbridge check App.sln --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags, failOn)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&failOn, "fail-on", string(domain.SeverityMajor),
		"Lowest severity failing the check: critical, major, minor, info")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, flags *requestFlags, failOn string) error {
	threshold, err := domain.ParseSeverity(failOn)
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	req, logger, err := flags.load(cmd, args, true)
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	formatter := service.NewOutputFormatter()
	uc, err := app.NewIngestUseCaseBuilder().
		WithService(service.NewIngestService(logger)).
		WithFormatter(formatter).
		Build()
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := uc.Check(ctx, *req, threshold)
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	if err := formatter.WriteCheck(result, req.OutputFormat, cmd.OutOrStdout()); err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to write result: %v", err)}
	}

	if !result.Passed {
		return &CheckExitError{Code: result.ExitCode}
	}
	return nil
}

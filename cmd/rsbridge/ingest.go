package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/ludo-technologies/rsbridge/app"
	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/ludo-technologies/rsbridge/internal/constants"
	"github.com/ludo-technologies/rsbridge/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func ingestCmd() *cobra.Command {
	flags := &requestFlags{}
	var watch bool

	cmd := &cobra.Command{
		Use:   "ingest [solution]",
		Short: "Ingest InspectCode reports of a solution",
		Long: `Parse the InspectCode reports of every selected project and print the
resulting violations grouped per project.

The solution may be a .sln file or a directory holding exactly one. When it is
omitted, analysis.solution from the configuration file is used.

Examples:
  # Reuse the reports found next to each project
  rsbridge ingest App.sln

  # Parse one report for a single project, as JSON
  rsbridge ingest App.sln --project Core --report build/inspect.xml --json

  # Launch InspectCode first
  rsbridge ingest App.sln --mode run --install-dir /opt/resharper

  # Ingest again whenever a report is rewritten
  rsbridge ingest App.sln --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args, flags, watch)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false,
		"Keep running and ingest again when a report changes")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string, flags *requestFlags, watch bool) error {
	req, logger, err := flags.load(cmd, args, true)
	if err != nil {
		return err
	}
	if watch && req.Mode != domain.ModeReuseReport {
		return domain.NewInvalidInputError("--watch needs the reuse_report mode", nil)
	}

	pm := service.NewProgressManager(req.OutputFormat == domain.OutputFormatText && !flagBool(cmd, "quiet"))
	defer pm.Close()

	uc, err := app.NewIngestUseCaseBuilder().
		WithService(service.NewIngestServiceWithProgress(logger, pm)).
		WithFormatter(service.NewOutputFormatter()).
		Build()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	response, err := uc.Execute(ctx, *req)
	if err != nil {
		return err
	}
	if !watch {
		return nil
	}

	return watchReports(ctx, uc, *req, response, logger)
}

func watchReports(ctx context.Context, uc *app.IngestUseCase, req domain.IngestRequest, response *domain.IngestResponse, logger *logrus.Logger) error {
	var reports []string
	for _, p := range response.Projects {
		reports = append(reports, p.Reports...)
	}

	watcher, err := service.NewReportWatcher(reports, constants.WatchDebounceMillis*time.Millisecond, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger.WithField("reports", len(reports)).Info("Watching reports, press Ctrl+C to stop")
	return watcher.Run(ctx, func(ctx context.Context, changed []string) {
		if _, err := uc.Execute(ctx, req); err != nil {
			logger.WithError(err).Error("Ingestion failed")
		}
	})
}

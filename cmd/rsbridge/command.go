package main

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/rsbridge/app"
	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/ludo-technologies/rsbridge/service"
	"github.com/spf13/cobra"
)

func commandCmd() *cobra.Command {
	flags := &requestFlags{}

	cmd := &cobra.Command{
		Use:   "command [solution]",
		Short: "Print the InspectCode command line of each project",
		Long: `Print the InspectCode invocation run mode would launch for each selected
project, without running it.

Examples:
  rsbridge command App.sln --install-dir /opt/resharper
  rsbridge command App.sln --project Core --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, args, flags)
		},
	}

	flags.register(cmd)

	return cmd
}

func runCommand(cmd *cobra.Command, args []string, flags *requestFlags) error {
	req, logger, err := flags.load(cmd, args, false)
	if err != nil {
		return err
	}

	solution, err := app.ResolveSolutionPath(app.NewFileHelper(), req.SolutionPath)
	if err != nil {
		return err
	}
	req.SolutionPath = solution

	invocations, err := service.NewIngestService(logger).Commands(req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch req.OutputFormat {
	case domain.OutputFormatJSON:
		return service.WriteJSON(out, invocations)
	case domain.OutputFormatYAML:
		return service.WriteYAML(out, invocations)
	}
	for _, inv := range invocations {
		fmt.Fprintln(out, commandLine(inv))
	}
	return nil
}

// commandLine renders inv for a shell, quoting arguments holding spaces
func commandLine(inv domain.Invocation) string {
	parts := make([]string, 0, len(inv.Args)+1)
	for _, p := range append([]string{inv.Executable}, inv.Args...) {
		if strings.ContainsAny(p, " \t\"") {
			p = `"` + strings.ReplaceAll(p, `"`, `\"`) + `"`
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

package main

import (
	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/ludo-technologies/rsbridge/service"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	flags := &requestFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalog",
		Long: `Print the rules findings are resolved against: the built-in catalog of the
selected language plus the configured custom rules.

Examples:
  rsbridge rules
  rsbridge rules --language vbnet --json
  rsbridge rules --custom-rules custom-rules.xml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.language, "language", "l", "",
		"Rule repository language: cs, vbnet")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "",
		"Output format: text, json, yaml")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVar(&flags.customRules, "custom-rules", "",
		"File holding additional <IssueType .../> definitions")

	return cmd
}

func runRules(cmd *cobra.Command, flags *requestFlags) error {
	req, logger, err := flags.load(cmd, nil, false)
	if err != nil {
		return err
	}
	switch req.Language {
	case "cs", "vbnet":
	default:
		return domain.NewInvalidInputError("invalid language: "+req.Language+" (must be one of: cs, vbnet)", nil)
	}

	rules, err := service.NewIngestService(logger).Rules(req)
	if err != nil {
		return err
	}
	return service.NewOutputFormatter().WriteRules(rules.Rules(), req.OutputFormat, cmd.OutOrStdout())
}

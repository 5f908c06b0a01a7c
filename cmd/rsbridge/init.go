package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/rsbridge/internal/config"
	"github.com/ludo-technologies/rsbridge/internal/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate an rsbridge configuration file",
		Long: `Generate a documented rsbridge configuration file with sensible defaults.

By default, creates rsbridge.yaml in the current directory with full
documentation. Use --interactive for a guided setup wizard.

Examples:
  # Create rsbridge.yaml in current directory
  rsbridge init

  # Custom output path
  rsbridge init --output ci/rsbridge.yaml

  # VB.NET solution analyzed by launching InspectCode
  rsbridge init --language vbnet --mode run

  # Overwrite existing file
  rsbridge init --force

  # Generate smaller config with essential options only
  rsbridge init --minimal

  # Interactive setup wizard
  rsbridge init -i`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}

	cmd.Flags().StringP("output", "o", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")
	cmd.Flags().StringP("language", "l", string(config.LanguageCSharp),
		"Solution language: cs, vbnet")
	cmd.Flags().StringP("mode", "m", config.ModeReuseReport,
		"Execution mode: reuse_report, run, skip")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("output")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")
	languageFlag, _ := cmd.Flags().GetString("language")
	mode, _ := cmd.Flags().GetString("mode")

	language := config.Language(languageFlag)
	if _, ok := config.GetLanguagePresets()[language]; !ok {
		return fmt.Errorf("invalid language %q, must be one of: cs, vbnet", languageFlag)
	}
	switch mode {
	case config.ModeReuseReport, config.ModeRun, config.ModeSkip:
	default:
		return fmt.Errorf("invalid mode %q, must be one of: reuse_report, run, skip", mode)
	}

	if interactive {
		var err error
		language, mode, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(language, mode)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", displayPath)
	fmt.Fprintln(out, "\nSet analysis.solution, then run 'rsbridge ingest' to ingest your reports.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (config.Language, string, string, error) {
	fmt.Println()
	fmt.Println("rsbridge Configuration Setup")
	fmt.Println("============================")
	fmt.Println()

	languages := []struct {
		Label string
		Value config.Language
	}{
		{"C#", config.LanguageCSharp},
		{"VB.NET", config.LanguageVBNet},
	}

	languagePrompt := promptui.Select{
		Label: "Which language are the projects written in?",
		Items: languages,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }}",
			Inactive: "   {{ .Label | white }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}

	languageIdx, _, err := languagePrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("language selection cancelled: %w", err)
	}

	fmt.Println()

	modes := []struct {
		Label       string
		Description string
		Value       string
	}{
		{"Reuse reports (recommended)", "Parse reports produced by your build", config.ModeReuseReport},
		{"Run InspectCode", "Launch InspectCode for each project, then parse its report", config.ModeRun},
		{"Skip", "Do nothing", config.ModeSkip},
	}

	modePrompt := promptui.Select{
		Label: "How should reports be obtained?",
		Items: modes,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
			Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}

	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("mode selection cancelled: %w", err)
	}

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	fmt.Printf("Creating %s... ", outputPath)

	return languages[languageIdx].Value, modes[modeIdx].Value, outputPath, nil
}

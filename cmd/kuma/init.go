package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/kuma/internal/config"
	"github.com/ludo-technologies/kuma/internal/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a kuma configuration file",
		Long: `Generate a documented kuma configuration file with sensible defaults.

By default, creates .kuma.yml in the current directory with full
documentation. Use --interactive for a guided setup wizard.

Examples:
  # Create .kuma.yml in current directory
  kuma init

  # Custom output path
  kuma init --config config/kuma.yml

  # Overwrite existing file
  kuma init --force

  # Generate smaller config with essential options only
  kuma init --minimal

  # Interactive setup wizard
  kuma init --interactive
  kuma init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")
	out := cmd.OutOrStdout()

	strictness := config.StrictnessStandard
	var enabled []string

	if interactive {
		var err error
		strictness, enabled, configPath, err = runInteractiveSetup(out, configPath)
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
		content = config.GetFullConfigTemplate(strictness, enabled)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(out, "Created %s\n", displayPath)
	fmt.Fprintln(out, "\nRun 'kuma' to check your project.")

	return nil
}

func runInteractiveSetup(out io.Writer, defaultConfigPath string) (config.Strictness, []string, string, error) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "kuma Configuration Setup")
	fmt.Fprintln(out, "========================")
	fmt.Fprintln(out)

	strictnessLevels := []struct {
		Label       string
		Description string
		Value       config.Strictness
	}{
		{"Standard (recommended)", "Balanced score ceilings for most projects", config.StrictnessStandard},
		{"Relaxed", "Higher ceilings, fewer failures", config.StrictnessRelaxed},
		{"Strict", "Lower ceilings, CI/CD enforcement", config.StrictnessStrict},
	}

	strictnessTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	strictnessPrompt := promptui.Select{
		Label:     "How strict should the checks be?",
		Items:     strictnessLevels,
		Templates: strictnessTemplates,
	}

	strictnessIdx, _, err := strictnessPrompt.Run()
	if err != nil {
		return "", nil, "", fmt.Errorf("strictness selection cancelled: %w", err)
	}
	selectedStrictness := strictnessLevels[strictnessIdx].Value

	fmt.Fprintln(out)

	enabled := make([]string, 0, len(constants.BuiltinTools))
	for _, tool := range constants.BuiltinTools {
		toolPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Enable %s", tool),
			IsConfirm: true,
			Default:   "y",
		}
		if _, err := toolPrompt.Run(); err != nil {
			if errors.Is(err, promptui.ErrAbort) {
				continue
			}
			return "", nil, "", fmt.Errorf("tool selection cancelled: %w", err)
		}
		enabled = append(enabled, tool)
	}

	fmt.Fprintln(out)

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", nil, "", fmt.Errorf("output path input cancelled: %w", err)
	}

	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Creating %s... ", outputPath)

	return selectedStrictness, enabled, outputPath, nil
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"veritas-hq/saturn/pkg/catalog"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List registered compliance templates",
	Long: `List the compliance templates available for reviews, including the
built-in templates and any loaded from the configured template
directory.`,
	RunE: runTemplates,
}

var templatesInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show details for one template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesInfo,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesInfoCmd)
}

func buildRegistry(cmd *cobra.Command) (*catalog.Registry, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	registry := catalog.NewRegistry()
	if cfg.Catalog.TemplateDir != "" {
		if _, err := registry.RegisterDir(cfg.Catalog.TemplateDir); err != nil {
			return nil, fmt.Errorf("failed to load templates from %s: %w", cfg.Catalog.TemplateDir, err)
		}
	}
	return registry, nil
}

func runTemplates(cmd *cobra.Command, args []string) error {
	registry, err := buildRegistry(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-20s %-40s %-10s %s\n", "NAME", "DISPLAY NAME", "VERSION", "REQUIREMENTS")
	for _, name := range registry.Names() {
		info, err := registry.Info(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-20s %-40s %-10s %d\n", info.Name, info.DisplayName, info.Version, info.RequirementCount)
	}
	return nil
}

func runTemplatesInfo(cmd *cobra.Command, args []string) error {
	registry, err := buildRegistry(cmd)
	if err != nil {
		return err
	}

	info, err := registry.Info(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:         %s\n", info.Name)
	fmt.Fprintf(out, "Display name: %s\n", info.DisplayName)
	fmt.Fprintf(out, "Version:      %s\n", info.Version)
	fmt.Fprintf(out, "Regulations:  %s\n", strings.Join(info.ApplicableRegulations, ", "))
	fmt.Fprintf(out, "Requirements: %d\n", info.RequirementCount)

	fmt.Fprintln(out, "\nRequired sections:")
	for _, s := range info.RequiredSections {
		fmt.Fprintf(out, "  - %s\n", s)
	}
	if len(info.OptionalSections) > 0 {
		fmt.Fprintln(out, "\nOptional sections:")
		for _, s := range info.OptionalSections {
			fmt.Fprintf(out, "  - %s\n", s)
		}
	}
	return nil
}

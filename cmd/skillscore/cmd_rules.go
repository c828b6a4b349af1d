package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules [skill-path]",
		Short: "Print the effective rule table",
		Long: `Print the rule table that "skillscore score" would apply, as YAML.

The table is the built-in default unless --rules or the "rules" key of a
.skillscore.yaml found above the skill path selects an override. The output
is itself a valid rule table and can be edited and passed back with --rules.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRules,
	}
	cmd.Flags().String("rules", "", "Rule table YAML file overriding the built-in defaults")
	return cmd
}

func runRules(cmd *cobra.Command, args []string) error {
	start := "."
	if len(args) > 0 {
		start = args[0]
	}
	cfg, err := loadProjectConfig(start)
	if err != nil {
		return err
	}
	rulesPath, err := cmd.Flags().GetString("rules")
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("rules") {
		rulesPath = cfg.RulesPath()
	}

	table, err := loadRules(rulesPath)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshaling rule table: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

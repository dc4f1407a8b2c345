package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"obscuritext/internal/config"
	"obscuritext/internal/language"
	"obscuritext/internal/pipeline"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set data.file and data.columns before running obscuritext.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configFlagValue())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			if strings.TrimSpace(cfg.Data.File) == "" {
				fmt.Fprintln(out, "Note: data.file is empty; pass --file to run")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings and the runs the sweep will produce",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			mode, err := cfg.Mode()
			if err != nil {
				return err
			}
			above, err := cfg.CombineAbove()
			if err != nil {
				return err
			}
			below, err := cfg.CombineBelow()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			settings := [][]string{
				{"Input", valueOrDash(cfg.Data.File)},
				{"Columns", valueOrDash(strings.Join(cfg.Data.Columns, ", "))},
				{"Output", pipeline.OutputDir(cfg.Data.OutputDir, cfg.Data.File)},
				{"Mode", mode.String()},
				{"Stemming", config.ParseToggle(cfg.Processing.Stemming).String()},
				{"Stem language", language.DisplayName(cfg.Processing.StemLanguage)},
				{"Combine above", above.String()},
				{"Combine below", below.String()},
				{"Replay", yesNo(cfg.ReplayConfigured())},
				{"Archive", yesNo(cfg.Export.Archive)},
			}
			fmt.Fprintln(out, renderTable(tableSpec{Headers: []string{"Setting", "Value"}, Rows: settings}))

			top, topOK := above.Resolve()
			bottom, bottomOK := below.Resolve()
			runs := cfg.Sweep()
			rows := make([][]string, 0, len(runs))
			for i, run := range runs {
				name := "resolved at run time"
				if topOK && bottomOK {
					name = pipeline.Naming{
						OutputBase: cfg.Data.OutputBase,
						Columns:    cfg.Data.Columns,
						Run:        run,
						Mode:       mode,
						Top:        top,
						Bottom:     bottom,
						Seed:       cfg.Processing.Seed,
						Salt:       cfg.Processing.Salt,
						HashLength: cfg.Processing.ConcatHashes,
					}.Name()
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					yesNo(run.CaseSensitive),
					yesNo(run.Stemming),
					yesNo(run.RemovePunctuation),
					name,
				})
			}
			fmt.Fprintln(out, renderTable(tableSpec{
				Title:   "Sweep",
				Headers: []string{"#", "Case", "Stem", "Remove punct", "Output name"},
				Aligns:  []columnAlignment{alignRight},
				Rows:    rows,
			}))
			return nil
		},
	}
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func baseName(path string) string {
	if path == "" {
		return "-"
	}
	return filepath.Base(path)
}

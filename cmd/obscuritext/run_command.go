package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"obscuritext/internal/config"
	"obscuritext/internal/logging"
	"obscuritext/internal/mapping"
	"obscuritext/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var file string
	var columns []string
	var replayRun string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Obscure the configured text columns for every sweep combination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(file) != "" {
				expanded, err := config.ExpandPath(strings.TrimSpace(file))
				if err != nil {
					return fmt.Errorf("resolve input path: %w", err)
				}
				cfg.Data.File = expanded
			}
			if len(columns) > 0 {
				cfg.Data.Columns = columns
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			var opts []pipeline.Option
			if in := cmd.InOrStdin(); canPrompt(in) {
				opts = append(opts, pipeline.WithResolver(newThresholdPrompt(in, cmd.OutOrStdout())))
			}
			if id := strings.TrimSpace(replayRun); id != "" || cfg.Export.Archive {
				archive, err := mapping.OpenArchive(cmd.Context(), cfg.Export.ArchivePath)
				if err != nil {
					return fmt.Errorf("open archive: %w", err)
				}
				defer archive.Close()
				if id != "" {
					buckets, err := archive.Buckets(cmd.Context(), id)
					if err != nil {
						return fmt.Errorf("replay run: %w", err)
					}
					opts = append(opts, pipeline.WithReplay(buckets))
				}
				if cfg.Export.Archive {
					opts = append(opts, pipeline.WithArchive(archive))
				}
			}

			summaries, runErr := pipeline.New(cfg, logger, opts...).Run(cmd.Context())
			if len(summaries) > 0 {
				printRunSummaries(cmd.OutOrStdout(), summaries)
			}
			if errors.Is(runErr, pipeline.ErrThresholdUnresolved) {
				return fmt.Errorf("%w; stdin is not a terminal, set a number or none in the config", runErr)
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Input CSV file (overrides data.file)")
	cmd.Flags().StringSliceVar(&columns, "column", nil, "Text column to obscure (repeatable, overrides data.columns)")
	cmd.Flags().StringVar(&replayRun, "replay-run", "", "Reuse the bucket membership of an archived run")
	return cmd
}

func printRunSummaries(out io.Writer, summaries []pipeline.Summary) {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Name,
			yesNo(s.Run.CaseSensitive),
			yesNo(s.Run.Stemming),
			yesNo(s.Run.RemovePunctuation),
			s.Top.String(),
			s.Bottom.String(),
			strconv.Itoa(s.UniqueWords),
			strconv.Itoa(s.Lines),
		})
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		Headers: []string{"Run", "Case", "Stem", "Remove punct", "Above", "Below", "Words", "Lines"},
		Aligns: []columnAlignment{
			alignLeft, alignLeft, alignLeft, alignLeft,
			alignRight, alignRight, alignRight, alignRight,
		},
		Rows: rows,
	}))
	fmt.Fprintf(out, "Outputs written to %s\n", summaries[0].Dir)
}

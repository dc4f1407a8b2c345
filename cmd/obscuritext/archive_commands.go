package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"obscuritext/internal/mapping"
)

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "Browse runs recorded in the mapping archive",
	}
	archiveCmd.AddCommand(newArchiveListCommand(ctx))
	archiveCmd.AddCommand(newArchiveShowCommand(ctx))
	return archiveCmd
}

func (c *commandContext) withArchive(cmd *cobra.Command, fn func(*mapping.Archive) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	archive, err := mapping.OpenArchive(cmd.Context(), cfg.Export.ArchivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archive.Close()
	return fn(archive)
}

func newArchiveListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withArchive(cmd, func(archive *mapping.Archive) error {
				runs, err := archive.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No archived runs")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ID,
						run.Name,
						run.Mode,
						strconv.Itoa(run.UniqueWords),
						strconv.Itoa(run.Lines),
						run.CreatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(out, renderTable(tableSpec{
					Headers: []string{"ID", "Name", "Mode", "Words", "Lines", "Created"},
					Aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
					Rows:    rows,
				}))
				return nil
			})
		},
	}
}

func newArchiveShowCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show an archived run with its buckets and leading mapping rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withArchive(cmd, func(archive *mapping.Archive) error {
				run, err := archive.Run(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				buckets, err := archive.Buckets(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				rows, err := archive.Rows(cmd.Context(), run.ID, limit)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				writeRunDetails(out, run)
				fmt.Fprintf(out, "Stop words: %d  Stop above: %d  Stop below: %d\n",
					len(buckets.StopWords), len(buckets.StopAbove), len(buckets.StopBelow))
				fmt.Fprintln(out, mappingTable("Mapping", rows))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", previewSize, "Maximum mapping rows to print (0 prints all)")
	return cmd
}

func writeRunDetails(out io.Writer, run mapping.RunSummary) {
	rows := [][]string{
		{"ID", run.ID},
		{"Name", run.Name},
		{"Mode", run.Mode},
		{"Words", strconv.Itoa(run.UniqueWords)},
		{"Lines", strconv.Itoa(run.Lines)},
		{"Created", run.CreatedAt.Local().Format(time.RFC3339)},
	}
	keys := make([]string, 0, len(run.Options))
	for key := range run.Options {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		rows = append(rows, []string{key, run.Options[key]})
	}
	fmt.Fprintln(out, renderTable(tableSpec{Headers: []string{"Field", "Value"}, Rows: rows}))
}

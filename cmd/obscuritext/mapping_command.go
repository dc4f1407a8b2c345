package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"obscuritext/internal/mapping"
)

func newMappingCommand() *cobra.Command {
	mappingCmd := &cobra.Command{
		Use:         "mapping",
		Short:       "Inspect exported mapping files",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	mappingCmd.AddCommand(newMappingShowCommand())
	return mappingCmd
}

func newMappingShowCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show <mapping.csv>",
		Short: "Print the first rows of a mapping file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open mapping: %w", err)
			}
			defer file.Close()

			rows, err := mapping.ReadCSV(file)
			if err != nil {
				return fmt.Errorf("read mapping %s: %w", args[0], err)
			}
			total := len(rows)
			if limit > 0 && len(rows) > limit {
				rows = rows[:limit]
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, mappingTable(baseName(args[0]), rows))
			fmt.Fprintf(out, "Showing %d of %d words\n", len(rows), total)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", previewSize, "Maximum rows to print (0 prints all)")
	return cmd
}

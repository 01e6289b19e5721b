package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"swissshield/internal/directory"
)

func directoryCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Inspect address directories",
	}
	cmd.AddCommand(directoryListCmd(root))
	cmd.AddCommand(&cobra.Command{
		Use:   "variants",
		Short: "List the embedded directory variants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, v := range directory.Variants() {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "validate FILE",
		Short: "Check a directory YAML file for errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := directory.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d entries, variant %q\n", dir.Len(), dir.Variant())
			return nil
		},
	})
	return cmd
}

func directoryListCmd(root *rootOptions) *cobra.Command {
	var (
		canton string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List directory entries with provenance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := loadDirectory(root)
			if err != nil {
				return err
			}
			var entries []directory.AddressEntry
			for _, e := range dir.Entries() {
				if canton == "" || strings.EqualFold(string(e.Canton), canton) {
					entries = append(entries, e)
				}
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCANTON\tZIP\tCONFESSION\tRECIPIENT\tUPDATED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Canton, e.Zip, e.Confession, e.RecipientName, e.UpdatedAt)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&canton, "canton", "", "only list one canton")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

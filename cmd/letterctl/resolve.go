package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"swissshield/internal/directory"
	"swissshield/pkg/domain"
)

func loadDirectory(opts *rootOptions) (*directory.Directory, error) {
	if opts.file != "" {
		return directory.LoadFile(opts.file)
	}
	return directory.Load(opts.variant)
}

func resolveCmd(root *rootOptions) *cobra.Command {
	var (
		canton, zip, confession string
		asJSON                  bool
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show which office a letter would be addressed to",
		Example: `  letterctl resolve --canton ZH --zip 8000 --confession catholic
  letterctl resolve --canton GE --zip 1204 --confession reformed --directory romandie-mixed --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := loadDirectory(root)
			if err != nil {
				return err
			}
			conf, err := domain.ParseConfession(confession)
			if err != nil {
				return err
			}
			match := dir.Resolve(domain.Canton(canton), zip, conf)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), match)
			}
			return printMatch(cmd.OutOrStdout(), match)
		},
	}
	cmd.Flags().StringVar(&canton, "canton", "", "canton code, e.g. ZH")
	cmd.Flags().StringVar(&zip, "zip", "", "postal code")
	cmd.Flags().StringVar(&confession, "confession", "", "catholic or reformed")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	_ = cmd.MarkFlagRequired("canton")
	_ = cmd.MarkFlagRequired("zip")
	_ = cmd.MarkFlagRequired("confession")
	return cmd
}

func printMatch(w io.Writer, m directory.MatchResult) error {
	fmt.Fprintf(w, "match: %s\n", m.Kind)
	if m.Message != "" {
		fmt.Fprintf(w, "note:  %s\n", m.Message)
	}
	if a := m.Address; a != nil {
		fmt.Fprintf(w, "id:    %s\n\n", a.ID)
		fmt.Fprintln(w, a.RecipientName)
		fmt.Fprintln(w, a.Addr1)
		if a.Addr2 != "" {
			fmt.Fprintln(w, a.Addr2)
		}
		fmt.Fprintln(w, a.PostalCity())
		fmt.Fprintln(w, a.Country)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

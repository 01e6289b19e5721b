// Command letterctl resolves church office addresses and renders
// resignation letters from the command line, without the web flow.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	variant string
	file    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "letterctl",
		Short:         "Resolve church office addresses and render resignation letters",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.variant, "directory", "german", "embedded directory variant")
	root.PersistentFlags().StringVar(&opts.file, "directory-file", "", "load the directory from a YAML file instead")

	root.AddCommand(resolveCmd(opts))
	root.AddCommand(renderCmd(opts))
	root.AddCommand(directoryCmd(opts))
	return root
}

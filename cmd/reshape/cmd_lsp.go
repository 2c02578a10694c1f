package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/reshape/lsp"
)

func newLSPCmd() *cobra.Command {
	var tcp string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		Long: `Start the Language Server Protocol server on stdio.

The server offers "Toggle argument layout" and "Sort fields" as code actions and as the
reshape.toggleLayout and reshape.sortFields commands. Configuration is read from the
workspace root.

Use --tcp to listen on an address instead of stdio.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewLSPServer(version)
			if tcp != "" {
				return server.RunTCP(tcp)
			}
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&tcp, "tcp", "", "listen for connections on this address, e.g. 127.0.0.1:4389")
	return cmd
}

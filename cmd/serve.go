package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jwhandley/railisochrone/persist"
	"github.com/jwhandley/railisochrone/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve <network-file>",
	Short: "Serves a saved network over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE:  runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "address to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	n, err := persist.Load(args[0])
	if err != nil {
		return fmt.Errorf("loading network: %w", err)
	}

	router := service.NewRouter(n)

	fmt.Printf("listening on %s (%d stops, %d connections)\n", serveAddr, len(n.Stops), len(n.Connections))
	return http.ListenAndServe(serveAddr, router)
}

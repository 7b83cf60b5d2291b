package cmd

import (
	"CurrentFM/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the CurrentFM server",
	Long:  `Start the HTTP API together with the ingest pipeline listening on the raw bucket.`,
	Run: func(cmd *cobra.Command, args []string) {
		initLogging()
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

package cmd

import (
	"fmt"
	"os"

	"CurrentFM/logger"
	"CurrentFM/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "currentfm",
	Short: "CurrentFM is a self-hosted music ingest and streaming service.",
	Run: func(cmd *cobra.Command, args []string) {
		initLogging()
		server.Start()
	},
}

func initLogging() {
	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(os.Getenv("LOG_LEVEL")),
		OutputPath: os.Getenv("LOG_FILE"),
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/config"
)

var version = "0.1.0"

var (
	cfg config.Config
	log *logrus.Logger

	envFile   string
	logLevel  string
	logFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rfbdebt",
		Short: "Extract debt lines from RFB Saldo Devedor statements",
		Long: `rfbdebt reads Receita Federal "Saldo Devedor" PDF statements and produces:
  - a spreadsheet with one row per debt line
  - optionally, one letter (ofício) per statement packed in a zip`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			loaded, err := config.Load(files...)
			if err != nil {
				return err
			}
			cfg = loaded

			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			log, err = config.NewLogger(cfg.LogLevel, cfg.LogFormat)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load settings from this .env file instead of ./.env")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(textCmd())
	rootCmd.AddCommand(tablesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}


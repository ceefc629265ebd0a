package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/youruser/cardcomposer/internal/config"
	"github.com/youruser/cardcomposer/internal/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cardcomposer",
	Short: "Composite marketing cards from a photo, a title and bullet points",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Setup(cfgFile)
		if err != nil {
			return err
		}
		return logger.Init(logger.Options{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
		})
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	// Without a subcommand the binary serves, like it always did.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "configuration file (default: ./cardcomposer.yaml or /etc/cardcomposer)")
	rootCmd.AddCommand(serveCmd, renderCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

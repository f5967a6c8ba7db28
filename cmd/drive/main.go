// Command drive is a terminal client for the drive store API. It uploads
// whole directory trees, moves folders with client-side cycle validation,
// and can host a local in-memory server for development.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/R0CKSAM/drive-cli/internal/config"
	"github.com/R0CKSAM/drive-cli/internal/remote"
)

var (
	cfg     *config.Config
	logger  *zap.Logger
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "drive",
	Short:         "Client for the drive file store",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		if verbose {
			logger, err = zap.NewDevelopment()
			if err != nil {
				return err
			}
		} else {
			logger = zap.NewNop()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func newClient() *remote.Client {
	return remote.NewClient(cfg.API.BaseURL, cfg.API.Token, logger)
}

// parentArg turns the CLI convention "root" / "" into a nil parent ID.
func parentArg(v string) *string {
	if v == "" || v == "root" {
		return nil
	}
	return &v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

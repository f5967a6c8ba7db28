package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/R0CKSAM/drive-cli/internal/devserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local in-memory drive server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger
		if !verbose {
			// The server always logs; it is the whole point of running it.
			var err error
			log, err = zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer log.Sync()
		}

		if cfg.Serve.JWTSecret == "" {
			return fmt.Errorf("serve.jwt_secret must be set")
		}

		srv, err := devserver.New(cfg.Serve, log)
		if err != nil {
			return err
		}

		log.Info("dev server listening",
			zap.String("addr", cfg.Serve.Addr),
			zap.String("user", cfg.Serve.UserEmail))
		return http.ListenAndServe(cfg.Serve.Addr, srv.Router())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream change events from the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		events, err := newClient().SubscribeEvents(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stderr, "Watching for changes (Ctrl-C to stop)…")
		for ev := range events {
			if ev.Name != "" {
				fmt.Printf("%s %s %s (%s)\n", ev.Entity, ev.ID, ev.EventType, ev.Name)
			} else {
				fmt.Printf("%s %s %s\n", ev.Entity, ev.ID, ev.EventType)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account behind the configured token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := newClient().Me(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(user.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mkdirParent string

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, err := newClient().CreateFolder(cmd.Context(), args[0], parentArg(mkdirParent))
		if err != nil {
			return err
		}
		fmt.Println(folder.ID)
		return nil
	},
}

func init() {
	mkdirCmd.Flags().StringVar(&mkdirParent, "parent", "root", "parent folder ID")
	rootCmd.AddCommand(mkdirCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmHard bool

var rmCmd = &cobra.Command{
	Use:   "rm <folder|file> <id>",
	Short: "Move an entry to the trash, or delete it permanently with --hard",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, id := args[0], args[1]
		client := newClient()

		var err error
		switch {
		case kind == "folder" && rmHard:
			err = client.PurgeFolder(cmd.Context(), id)
		case kind == "folder":
			err = client.TrashFolder(cmd.Context(), id)
		case kind == "file" && rmHard:
			err = client.PurgeFile(cmd.Context(), id)
		case kind == "file":
			err = client.TrashFile(cmd.Context(), id)
		default:
			return fmt.Errorf("unknown entity %q: want folder or file", kind)
		}
		if err != nil {
			return err
		}

		if rmHard {
			fmt.Println("Deleted permanently.")
		} else {
			fmt.Println("Moved to trash.")
		}
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolVar(&rmHard, "hard", false, "delete permanently instead of trashing")
	rootCmd.AddCommand(rmCmd)
}

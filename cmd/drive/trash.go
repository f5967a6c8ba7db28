package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Work with trashed entries",
}

var trashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List everything in the trash",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		folders, files, err := newClient().ListTrash(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		defer w.Flush()
		for _, f := range folders {
			fmt.Fprintf(w, "folder\t%s\t%s/\t%s\n", f.ID, f.Name, f.DeletedAt.Format("2006-01-02 15:04"))
		}
		for _, f := range files {
			fmt.Fprintf(w, "file\t%s\t%s\t%s\n", f.ID, f.Name, f.DeletedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var trashRestoreCmd = &cobra.Command{
	Use:   "restore <folder|file> <id>",
	Short: "Restore an entry to its original location",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, id := args[0], args[1]
		client := newClient()

		var err error
		switch kind {
		case "folder":
			err = client.RestoreFolder(cmd.Context(), id)
		case "file":
			err = client.RestoreFile(cmd.Context(), id)
		default:
			return fmt.Errorf("unknown entity %q: want folder or file", kind)
		}
		if err != nil {
			return err
		}
		fmt.Println("Restored.")
		return nil
	},
}

var trashEmptyCmd = &cobra.Command{
	Use:   "empty",
	Short: "Permanently delete everything in the trash",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		folders, files, err := client.ListTrash(cmd.Context())
		if err != nil {
			return err
		}

		// Folders first so contained files disappear with them; failures
		// are reported but do not stop the sweep.
		failed := 0
		for _, f := range folders {
			if err := client.PurgeFolder(cmd.Context(), f.ID); err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "Failed to delete folder %s: %v\n", f.Name, err)
			}
		}
		for _, f := range files {
			if err := client.PurgeFile(cmd.Context(), f.ID); err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "Failed to delete file %s: %v\n", f.Name, err)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d entries could not be deleted", failed)
		}
		fmt.Printf("Deleted %d folders and %d files.\n", len(folders), len(files))
		return nil
	},
}

func init() {
	trashCmd.AddCommand(trashListCmd, trashRestoreCmd, trashEmptyCmd)
	rootCmd.AddCommand(trashCmd)
}

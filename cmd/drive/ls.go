package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [folderID]",
	Short: "List folders and files under a folder (default: root)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var parentID *string
		if len(args) == 1 {
			parentID = parentArg(args[0])
		}

		client := newClient()
		folders, err := client.ListFolders(cmd.Context(), parentID)
		if err != nil {
			return err
		}
		files, err := client.ListFiles(cmd.Context(), parentID)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		defer w.Flush()
		for _, f := range folders {
			fmt.Fprintf(w, "%s\t%s/\t\n", f.ID, f.Name)
		}
		for _, f := range files {
			fmt.Fprintf(w, "%s\t%s\t%d\n", f.ID, f.Name, f.SizeBytes)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/R0CKSAM/drive-cli/internal/hierarchy"
	"github.com/R0CKSAM/drive-cli/internal/models"
	"github.com/R0CKSAM/drive-cli/internal/remote"
)

var moveTo string

var moveCmd = &cobra.Command{
	Use:   "move <folder|file> <id>",
	Short: "Move a folder or file to a new parent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, id := args[0], args[1]
		dest := parentArg(moveTo)
		client := newClient()

		switch kind {
		case "file":
			return moveFile(cmd, client, id, dest)
		case "folder":
			return moveFolder(cmd, client, id, dest)
		default:
			return fmt.Errorf("unknown entity %q: want folder or file", kind)
		}
	},
}

func moveFile(cmd *cobra.Command, client *remote.Client, id string, dest *string) error {
	if err := client.MoveFile(cmd.Context(), id, dest); err != nil {
		return err
	}
	fmt.Println("Moved.")
	return nil
}

// moveFolder validates the destination against the descendant closure before
// touching the server. Validation is advisory: on a partial folder listing
// the server still has the final say and may reject the move.
func moveFolder(cmd *cobra.Command, client *remote.Client, id string, dest *string) error {
	folders, complete, err := client.ListAllFolders(cmd.Context())
	if err != nil {
		return err
	}
	if !complete {
		fmt.Fprintln(os.Stderr, "Warning: full folder listing unavailable, validating against top level only.")
	}

	subject := models.MoveCandidate{Type: models.EntityFolder, ID: id}
	known := false
	for _, f := range folders {
		if f.ID == id {
			subject.Name = f.Name
			subject.ParentID = f.ParentID
			known = true
			break
		}
	}

	forbidden := hierarchy.ComputeForbiddenSet(id, folders)
	if dest != nil && forbidden.Contains(*dest) {
		return fmt.Errorf("cannot move a folder into itself or its descendants")
	}
	// The no-op check needs the subject's current parent, which a degraded
	// listing may not include.
	if known && !hierarchy.IsValidDestination(forbidden, subject, dest) {
		fmt.Println("Nothing to do: the folder is already there.")
		return nil
	}

	if err := client.MoveFolder(cmd.Context(), id, dest); err != nil {
		if errors.Is(err, remote.ErrCycleDetected) {
			return fmt.Errorf("the server rejected the move as cycle-forming: %w", err)
		}
		return err
	}
	fmt.Println("Moved.")
	return nil
}

func init() {
	moveCmd.Flags().StringVar(&moveTo, "to", "root", "new parent folder ID")
	rootCmd.AddCommand(moveCmd)
}

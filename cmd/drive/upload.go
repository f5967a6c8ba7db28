package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/R0CKSAM/drive-cli/internal/upload"
)

var uploadDest string

var uploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a file or a whole directory tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		dest := parentArg(uploadDest)

		info, err := os.Stat(args[0])
		if err != nil {
			return err
		}

		if !info.IsDir() {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			uploaded, err := client.UploadFile(cmd.Context(), filepath.Base(args[0]), dest, f)
			if err != nil {
				return err
			}
			fmt.Println(uploaded.ID)
			return nil
		}

		entries, err := upload.ScanDir(args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("%s contains no files", args[0])
		}

		rec := upload.NewReconstructor(client, logger)
		res, err := rec.Run(cmd.Context(), entries, dest, func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rUploading %d / %d…", done, total)
		})
		fmt.Fprintln(os.Stderr)

		var batchErr *upload.BatchError
		if errors.As(err, &batchErr) {
			fmt.Fprintf(os.Stderr, "Uploaded %d of %d entries (%d folders created).\n",
				res.Completed, res.Total, res.CreatedFolders)
			return fmt.Errorf("first failure at %q: %w", batchErr.FirstPath, batchErr.Err)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Stopped after %d of %d entries.\n", res.Completed, res.Total)
			return err
		}

		fmt.Printf("Uploaded %d files, created %d folders.\n", res.Completed, res.CreatedFolders)
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadDest, "dest", "root", "destination folder ID")
	rootCmd.AddCommand(uploadCmd)
}

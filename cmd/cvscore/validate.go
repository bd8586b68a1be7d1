package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"alfredoptarigan/ats-cv-scorer/internal/services"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check whether a CV file would be accepted for scoring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", path, err)
			}

			res := services.NewFileValidator().Validate(services.FileMeta{
				Name:      filepath.Base(path),
				Size:      info.Size(),
				MediaType: mime.TypeByExtension(filepath.Ext(path)),
			})
			if !res.IsValid {
				return fmt.Errorf("%s: %s", filepath.Base(path), res.Reason)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", filepath.Base(path))
			return nil
		},
	}
}

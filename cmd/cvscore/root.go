package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/ats-cv-scorer/internal/logger"
	"alfredoptarigan/ats-cv-scorer/internal/services"
)

const app = "cvscore"

// Actual version can be specified in build command.
var version = "unknown"

type rootOptions struct {
	debug   bool
	logJSON bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          app,
		Short:        "cvscore rates how well a CV will survive an applicant tracking system",
		SilenceUsage: true,
		Version:      version,
	}

	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")
	cmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "json format for logging")

	cmd.AddCommand(newScoreCmd(opts))
	cmd.AddCommand(newValidateCmd())

	return cmd
}

func (o *rootOptions) logger() *zap.Logger {
	// Logging is opt-in so stdout stays parseable.
	if !o.debug {
		return zap.NewNop()
	}
	l, err := logger.New(o.logJSON, o.debug)
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// loadDocument reads a local file into the form the pipeline expects.
func loadDocument(path string) (services.UploadedDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return services.UploadedDocument{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return services.UploadedDocument{}, fmt.Errorf("%s is a directory", path)
	}

	doc := services.UploadedDocument{
		Name:      filepath.Base(path),
		MediaType: mime.TypeByExtension(filepath.Ext(path)),
		Size:      info.Size(),
	}

	// Oversized files are rejected on metadata alone.
	if res := services.NewFileValidator().Validate(doc.Meta()); !res.IsValid {
		return doc, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return services.UploadedDocument{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc.Content = content
	return doc, nil
}

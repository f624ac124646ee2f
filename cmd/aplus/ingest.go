package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"AplusBackend/internal/app"
	"AplusBackend/internal/domain"
	"AplusBackend/internal/httpapi"
)

type ingestOptions struct {
	planID int64
	urls   []string
	files  []string
}

func newIngestCmd(state *cliState) *cobra.Command {
	opts := &ingestOptions{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Extract PDFs and web pages into a plan once",
		Long:  "Runs the ingestion pipeline against local PDF files and URLs and prints the per-item results as JSON.",
		Example: `  aplus ingest --plan-id 3 --url https://en.wikipedia.org/wiki/Derivative --file notes.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, state, opts)
		},
	}

	cmd.Flags().Int64Var(&opts.planID, "plan-id", 0, "study plan id the materials belong to (required)")
	cmd.Flags().StringArrayVar(&opts.urls, "url", nil, "web page to extract (repeatable)")
	cmd.Flags().StringArrayVar(&opts.files, "file", nil, "PDF file to extract (repeatable)")
	_ = cmd.MarkFlagRequired("plan-id")
	return cmd
}

func runIngest(cmd *cobra.Command, state *cliState, opts *ingestOptions) error {
	links := opts.urls
	if links == nil {
		links = []string{}
	}
	linksJSON, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("encode links: %w", err)
	}

	uploads := make([]domain.Upload, 0, len(opts.files))
	for _, path := range opts.files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		uploads = append(uploads, domain.Upload{
			Filename:    filepath.Base(path),
			ContentType: http.DetectContentType(data),
			Data:        data,
		})
	}

	application, err := app.New(cmd.Context(), state.cfg, state.logger)
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	res, err := application.Pipeline().Run(cmd.Context(), domain.IngestionRequest{
		PlanID:    opts.planID,
		LinksJSON: string(linksJSON),
		Uploads:   uploads,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(httpapi.NewWorkflowData(res))
}

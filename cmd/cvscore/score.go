package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/ats-cv-scorer/internal/services"
)

type scoreOptions struct {
	jobDescription string
	jobFile        string
	seed           uint64
	mode           string
	asJSON         bool
}

type scoreOutput struct {
	File      string             `json:"file"`
	Score     services.CVScore   `json:"score"`
	JobMatch  *services.JobMatch `json:"job_match,omitempty"`
	Tips      []services.CVTip   `json:"tips"`
	WordCount int                `json:"word_count"`
}

func newScoreCmd(root *rootOptions) *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score <file>",
		Short: "Score a CV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.jobDescription, "job-description", "", "job description text to match against")
	cmd.Flags().StringVar(&opts.jobFile, "job-file", "", "file holding the job description")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for reproducible scores")
	cmd.Flags().StringVar(&opts.mode, "mode", string(services.ExtractorModeParse), "extraction mode: parse or placeholder")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the result as json")
	cmd.MarkFlagsMutuallyExclusive("job-description", "job-file")

	return cmd
}

func runScore(cmd *cobra.Command, root *rootOptions, opts *scoreOptions, path string) error {
	jobDescription := opts.jobDescription
	if opts.jobFile != "" {
		data, err := os.ReadFile(opts.jobFile)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		jobDescription = string(data)
	}

	mode := services.ExtractorMode(opts.mode)
	if mode != services.ExtractorModeParse && mode != services.ExtractorModePlaceholder {
		return fmt.Errorf("unknown extraction mode %q", opts.mode)
	}

	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	rnd := services.NewTimeSeededRandomSource()
	if cmd.Flags().Changed("seed") {
		rnd = services.NewRandomSource(opts.seed)
	}

	log := root.logger()
	validator := services.NewFileValidator()
	analyzer := services.NewAnalyzerService(services.AnalyzerDeps{
		Validator: validator,
		Extractor: services.NewTextExtractor(validator, services.NewPDFParserService(), mode, log),
		Generator: services.NewScoreGenerator(rnd),
		Logger:    log,
	})

	result, err := analyzer.Analyze(cmd.Context(), services.AnalyzeRequest{
		Document:       doc,
		JobDescription: jobDescription,
	})
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%s: %s", doc.Name, verr.Error())
		}
		return fmt.Errorf("failed to score %s: %w", doc.Name, err)
	}

	out := scoreOutput{
		File:      doc.Name,
		Score:     result.Score,
		JobMatch:  result.JobMatch,
		Tips:      result.Tips,
		WordCount: result.WordCount,
	}

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printScore(cmd.OutOrStdout(), out)
	return nil
}

func printScore(w io.Writer, out scoreOutput) {
	s := out.Score
	fmt.Fprintf(w, "%s\n", out.File)
	fmt.Fprintf(w, "Overall score: %d/100\n\n", s.Overall)

	rows := []struct {
		label string
		value int
	}{
		{"Keyword match", s.KeywordMatch},
		{"Formatting", s.Formatting},
		{"Section presence", s.SectionPresence},
		{"Readability", s.Readability},
		{"Length", s.Length},
		{"Contact info", s.ContactInfo},
		{"Education", s.Education},
		{"Experience", s.Experience},
		{"Skills", s.Skills},
		{"B-BBEE compliance", s.BBBEECompliance},
		{"Content relevance", s.ContentRelevance},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-18s %3d\n", r.label, r.value)
	}

	if m := out.JobMatch; m != nil {
		fmt.Fprintf(w, "\nJob match: %d/100 (%.0f%% of keywords)\n", m.Score, m.MatchRate*100)
		if len(m.Missing) > 0 {
			fmt.Fprintf(w, "  Missing: %s\n", strings.Join(m.Missing, ", "))
		}
	}

	if len(out.Tips) > 0 {
		fmt.Fprintln(w, "\nTips:")
		for _, t := range out.Tips {
			fmt.Fprintf(w, "  [%s] %s: %s\n", t.Priority, t.Title, t.Description)
		}
	}
}

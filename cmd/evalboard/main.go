// evalboard is the offline companion to evalboardd: it lints catalog
// directories and scores recorded answer sets without running the
// server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evalworks/evalboard/internal/catalog"
	"github.com/evalworks/evalboard/internal/export"
	"github.com/evalworks/evalboard/internal/grade"
	"github.com/evalworks/evalboard/internal/scoring"
)

var (
	questionsDir string
	answersPath  string
	reportTitle  string
	verbose      bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "evalboard",
	Short: "Questionnaire evaluation toolkit",
	Long: `evalboard works against a questions directory (one JSON file per
questionnaire) and, for the scoring commands, a recorded answer set in
the legacy "<page>_<collection>_<index>" key format.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger = zap.NewNop()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Lint a questions directory",
	Long: `Loads the catalog the same lenient way the server does, then runs
the strict checks: duplicate IDs, non-grade option letters, empty
collections, and collection IDs that prefix each other. Exits non-zero
when anything is found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		findings := catalog.Lint(cat)
		if len(findings) == 0 {
			fmt.Printf("%d questionnaire(s), no findings\n", len(cat))
			return nil
		}
		for _, f := range findings {
			fmt.Println(f.String())
		}
		return fmt.Errorf("%d finding(s)", len(findings))
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an answer set and print the three score maps as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, answers, err := loadInputs(cmd.Context())
		if err != nil {
			return err
		}
		data := scoring.Calculate(cat, answers)
		overall := scoring.Overall(data)
		out := struct {
			scoring.ScoreData
			OverallScore float64 `json:"overall_score"`
			OverallGrade string  `json:"overall_grade"`
		}{ScoreData: data, OverallScore: overall, OverallGrade: grade.LetterLenient(overall)}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the plain-text results block",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, answers, err := loadInputs(cmd.Context())
		if err != nil {
			return err
		}
		report := export.Build(reportTitle, cat, scoring.Calculate(cat, answers))
		fmt.Print(report.Text())
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Print per-questionnaire completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, answers, err := loadInputs(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(scoring.Progress(cat, answers))
	},
}

func loadCatalog(ctx context.Context) (catalog.Catalog, error) {
	cat, err := catalog.Load(ctx, questionsDir, logger)
	if err != nil {
		return nil, fmt.Errorf("load questions from %s: %w", questionsDir, err)
	}
	return cat, nil
}

func loadInputs(ctx context.Context) (catalog.Catalog, map[scoring.AnswerKey]scoring.Answer, error) {
	cat, err := loadCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	answers, err := loadAnswers(answersPath)
	if err != nil {
		return nil, nil, err
	}
	return cat, answers, nil
}

// loadAnswers reads a legacy composite-key answer file. Keys that do
// not carry the three segments are skipped, the same leniency the
// import endpoint applies.
func loadAnswers(path string) (map[scoring.AnswerKey]scoring.Answer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var legacy map[string]struct {
		OptionID   string `json:"option_id"`
		OptionText string `json:"option_text"`
	}
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	answers := make(map[scoring.AnswerKey]scoring.Answer, len(legacy))
	for k, v := range legacy {
		key, err := scoring.ParseKey(k)
		if err != nil {
			logger.Warn("skipping malformed answer key", zap.String("key", k))
			continue
		}
		answers[key] = scoring.Answer{Option: catalog.Option{
			ID:   strings.ToUpper(strings.TrimSpace(v.OptionID)),
			Text: v.OptionText,
		}}
	}
	return answers, nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&questionsDir, "questions", "q", "./questions", "directory of questionnaire JSON files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log loader diagnostics")

	for _, c := range []*cobra.Command{scoreCmd, exportCmd, progressCmd} {
		c.Flags().StringVarP(&answersPath, "answers", "a", "", "recorded answers JSON file (required)")
		_ = c.MarkFlagRequired("answers")
	}
	exportCmd.Flags().StringVar(&reportTitle, "title", "", "report title (defaults to \""+export.DefaultTitle+"\")")

	rootCmd.AddCommand(validateCmd, scoreCmd, exportCmd, progressCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

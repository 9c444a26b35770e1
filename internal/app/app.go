// Package app wires configuration, document loading, extraction, evaluation
// and reporting into a single runnable pipeline.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/docugrade/docugrade/internal/cache"
	"github.com/docugrade/docugrade/internal/docload"
	"github.com/docugrade/docugrade/internal/evaluate"
	"github.com/docugrade/docugrade/internal/grade"
	"github.com/docugrade/docugrade/internal/llm"
	"github.com/docugrade/docugrade/internal/normalize"
	"github.com/docugrade/docugrade/internal/qaextract"
	"github.com/docugrade/docugrade/internal/report"
)

// ErrNoPairs is returned when no question/answer pairs could be extracted
// from the input document. Per the exit code policy this maps to a distinct
// non-zero exit so callers can tell "bad document" from "pipeline failure".
var ErrNoPairs = errors.New("no question/answer pairs found")

type App struct {
	cfg    Config
	client llm.Client
	model  string
	cache  *cache.LLMCache
	closer func()
}

// New builds the pipeline for cfg. In dry-run mode no LLM backend is
// constructed.
func New(ctx context.Context, cfg Config) (*App, error) {
	a := &App{cfg: cfg}
	if cfg.CacheDir != "" {
		a.cache = &cache.LLMCache{Dir: cfg.CacheDir}
	}
	if cfg.DryRun {
		return a, nil
	}
	switch cfg.Provider {
	case "", ProviderOpenAI:
		a.client = llm.NewOpenAIProvider(cfg.LLMBaseURL, cfg.LLMAPIKey)
		a.model = cfg.LLMModel
	case ProviderGemini:
		model := cfg.GeminiModel
		if model == "" {
			model = "gemini-1.5-flash"
		}
		g, err := llm.NewGeminiProvider(ctx, cfg.GeminiAPIKey, model)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		a.client = g
		a.model = model
		a.closer = func() { _ = g.Close() }
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	return a, nil
}

func (a *App) Close() {
	if a.closer != nil {
		a.closer()
	}
}

// Run executes the pipeline: load the document, extract pairs, evaluate each
// answer, grade, and write the report.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.DryRun {
		pairs, err := a.extractPairs(a.cfg.InputPath)
		if err != nil {
			return err
		}
		return writePairs(pairs, a.cfg.OutputPath)
	}

	r, err := a.EvaluateDocument(ctx, a.cfg.InputPath)
	if err != nil {
		return err
	}
	if err := report.WriteJSON(r, a.cfg.OutputPath); err != nil {
		return err
	}
	if a.cfg.OutputPDFPath != "" {
		if err := report.WritePDF(r, a.cfg.OutputPDFPath); err != nil {
			return fmt.Errorf("write pdf report: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPDFPath).Msg("wrote PDF report")
	}
	return nil
}

// EvaluateDocument runs load, extract, evaluate and grade for one document
// and returns the assembled report. Used by both the CLI and the upload
// server.
func (a *App) EvaluateDocument(ctx context.Context, path string) (report.Report, error) {
	pairs, err := a.extractPairs(path)
	if err != nil {
		return report.Report{}, err
	}

	orch := &evaluate.Orchestrator{
		Client:         a.client,
		Model:          a.model,
		Cache:          a.cache,
		PerCallTimeout: a.cfg.Timeout,
	}
	verdicts := orch.Evaluate(ctx, pairs)

	summary, err := grade.Assign(verdicts)
	if err != nil {
		return report.Report{}, fmt.Errorf("grade: %w", err)
	}
	log.Info().
		Str("grade", summary.Letter).
		Float64("percentage", summary.Percentage).
		Int("correct", summary.CorrectCount).
		Int("total", summary.TotalCount).
		Msg("graded document")

	return report.Report{Results: verdicts, Grade: summary}, nil
}

func (a *App) extractPairs(path string) ([]qaextract.Pair, error) {
	segments, err := docload.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	text := normalize.Flatten(segments)

	pairs := qaextract.Extract(text)
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPairs, path)
	}
	log.Info().Int("pairs", len(pairs)).Str("input", path).Msg("extracted question/answer pairs")
	return pairs, nil
}

// writePairs emits the extracted pairs as JSON without evaluating them.
func writePairs(pairs []qaextract.Pair, path string) error {
	b, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/docugrade/docugrade/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		inputPath  string
		outputPath string
		outputPDF  string
		configPath string
		envFile    string
		provider   string
		llmBaseURL string
		llmModel   string
		llmKey     string
		geminiKey  string
		geminiModel string
		timeout    time.Duration
		cacheDir   string
		dryRun     bool
		verbose    bool
	)

	flag.StringVar(&inputPath, "input", "", "Path to the document to evaluate (pdf, docx, html, txt, md)")
	flag.StringVar(&outputPath, "output", "-", "Path to write the JSON results ('-' for stdout)")
	flag.StringVar(&outputPDF, "output.pdf", "", "Optional path to also write a PDF report")
	flag.StringVar(&configPath, "config", "", "Optional YAML or JSON config file")
	flag.StringVar(&envFile, "env.file", ".env", "Dotenv file to load before reading environment")
	flag.StringVar(&provider, "provider", "", "LLM backend: openai (default) or gemini")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", "", "Model name for the OpenAI-compatible backend")
	flag.StringVar(&llmKey, "llm.key", "", "API key for the OpenAI-compatible backend")
	flag.StringVar(&geminiKey, "gemini.key", "", "API key for the Gemini backend")
	flag.StringVar(&geminiModel, "gemini.model", "", "Model name for the Gemini backend")
	flag.DurationVar(&timeout, "timeout", 0, "Per-question LLM call timeout (e.g. 30s); 0 uses the default")
	flag.StringVar(&cacheDir, "cache.dir", "", "Directory for caching LLM responses; empty disables caching")
	flag.BoolVar(&dryRun, "dry-run", false, "Extract question/answer pairs without evaluating them")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.LoadEnvFiles(envFile); err != nil {
		log.Error().Err(err).Msg("load env file")
		os.Exit(1)
	}

	cfg := app.Config{
		InputPath:     inputPath,
		OutputPath:    outputPath,
		OutputPDFPath: outputPDF,
		Provider:      provider,
		LLMBaseURL:    llmBaseURL,
		LLMModel:      llmModel,
		LLMAPIKey:     llmKey,
		GeminiAPIKey:  geminiKey,
		GeminiModel:   geminiModel,
		Timeout:       timeout,
		CacheDir:      cacheDir,
		DryRun:        dryRun,
		Verbose:       verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("config", configPath).Msg("load config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnv(&cfg)

	if err := app.ValidateConfig(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 2 for a document with no extractable pairs so
		// scripts can distinguish it from pipeline failures (1).
		if errors.Is(err, app.ErrNoPairs) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}

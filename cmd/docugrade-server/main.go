package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/docugrade/docugrade/internal/app"
	"github.com/docugrade/docugrade/internal/server"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		addr       string
		uploadDir  string
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
		verbose    bool
	)

	flag.StringVar(&addr, "addr", ":8080", "Listen address")
	flag.StringVar(&uploadDir, "upload.dir", os.TempDir(), "Scratch directory for uploaded documents")
	flag.StringVar(&configPath, "config", "", "Optional YAML or JSON config file")
	flag.StringVar(&envFile, "env.file", ".env", "Dotenv file to load before reading environment")
	flag.StringVar(&provider, "provider", "", "LLM backend: openai (default) or gemini")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", "", "Model name for the OpenAI-compatible backend")
	flag.StringVar(&llmKey, "llm.key", "", "API key for the OpenAI-compatible backend")
	flag.StringVar(&geminiKey, "gemini.key", "", "API key for the Gemini backend")
	flag.StringVar(&geminiModel, "gemini.model", "", "Model name for the Gemini backend")
	flag.DurationVar(&timeout, "timeout", 0, "Per-question LLM call timeout; 0 uses the default")
	flag.StringVar(&cacheDir, "cache.dir", "", "Directory for caching LLM responses; empty disables caching")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.LoadEnvFiles(envFile); err != nil {
		log.Fatal().Err(err).Msg("load env file")
	}

	cfg := app.Config{
		// The server receives documents over HTTP, so only the LLM side of
		// the config applies. InputPath is set per request.
		InputPath:    "-",
		Provider:     provider,
		LLMBaseURL:   llmBaseURL,
		LLMModel:     llmModel,
		LLMAPIKey:    llmKey,
		GeminiAPIKey: geminiKey,
		GeminiModel:  geminiModel,
		Timeout:      timeout,
		CacheDir:     cacheDir,
		Verbose:      verbose,
	}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("config", configPath).Msg("load config file")
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnv(&cfg)
	if err := app.ValidateConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init app")
	}
	defer a.Close()

	srv := &server.Server{Eval: a, UploadDir: uploadDir}
	log.Info().Str("addr", addr).Msg("listening")
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

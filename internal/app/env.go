package app

import (
	"bufio"
	"errors"
	"os"
	"strings"
	"time"
)

// LoadEnvFiles loads one or more dotenv files of KEY=VALUE pairs into the
// process environment. Later files override earlier ones. Lines starting
// with '#' and blank lines are ignored. Values are not expanded.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if err := loadEnvFile(p); err != nil {
			// Missing files are not fatal; continue to next path
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			// ignore malformed lines silently
			continue
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		if len(val) >= 2 {
			if (val[0] == '"' && val[len(val)-1] == '"') || (val[0] == '\'' && val[len(val)-1] == '\'') {
				val = val[1 : len(val)-1]
			}
		}
		_ = os.Setenv(key, val)
	}
	return scanner.Err()
}

// ApplyEnv overlays environment variables into cfg for fields that are still
// unset. Recognized variables: LLM_BASE_URL, LLM_MODEL, LLM_API_KEY,
// OPENAI_API_KEY, GEMINI_API_KEY, GEMINI_MODEL, DOCUGRADE_PROVIDER,
// DOCUGRADE_CACHE_DIR, DOCUGRADE_TIMEOUT.
func ApplyEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	setIfEmpty := func(dst *string, keys ...string) {
		if *dst != "" {
			return
		}
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	setIfEmpty(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setIfEmpty(&cfg.LLMModel, "LLM_MODEL")
	setIfEmpty(&cfg.LLMAPIKey, "LLM_API_KEY", "OPENAI_API_KEY")
	setIfEmpty(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	setIfEmpty(&cfg.GeminiModel, "GEMINI_MODEL")
	setIfEmpty(&cfg.Provider, "DOCUGRADE_PROVIDER")
	setIfEmpty(&cfg.CacheDir, "DOCUGRADE_CACHE_DIR")
	if cfg.Timeout == 0 {
		if v := strings.TrimSpace(os.Getenv("DOCUGRADE_TIMEOUT")); v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				cfg.Timeout = d
			}
		}
	}
}

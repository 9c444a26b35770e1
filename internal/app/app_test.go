package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

const sampleDoc = "Q1: What is the capital of France?\nAnswer 1: Paris\n\nQ2: What is 2+2?\nAnswer 2: 4\n"

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exam.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type fakeClient struct {
	reply string
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.reply}}},
	}, nil
}

func TestRun_DryRunWritesPairs(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pairs.json")
	cfg := Config{InputPath: writeInput(t, sampleDoc), OutputPath: out, DryRun: true}
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var pairs []map[string]any
	if err := json.Unmarshal(b, &pairs); err != nil {
		t.Fatalf("output not JSON: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs", len(pairs))
	}
	if pairs[0]["question"] != "What is the capital of France?" || pairs[0]["answer"] != "Paris" {
		t.Fatalf("got %v", pairs[0])
	}
}

func TestRun_NoPairsIsDistinctError(t *testing.T) {
	cfg := Config{InputPath: writeInput(t, "nothing structured here at all"), OutputPath: "-", DryRun: true}
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Run(context.Background()); !errors.Is(err, ErrNoPairs) {
		t.Fatalf("expected ErrNoPairs, got %v", err)
	}
}

func TestRun_FullPipeline(t *testing.T) {
	out := filepath.Join(t.TempDir(), "results.json")
	cfg := Config{InputPath: writeInput(t, sampleDoc), OutputPath: out, LLMModel: "test-model"}
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	a.client = &fakeClient{reply: `{"is_correct": true, "correct_answer": "", "explanation": "Right.", "suggestion": ""}`}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Results []struct {
			QuestionNum string `json:"question_num"`
			IsCorrect   *bool  `json:"is_correct"`
		} `json:"results"`
		Grade struct {
			Letter string `json:"letter"`
		} `json:"overall_grade"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("output not JSON: %v", err)
	}
	if len(decoded.Results) != 2 {
		t.Fatalf("got %d results", len(decoded.Results))
	}
	if decoded.Results[0].IsCorrect == nil || !*decoded.Results[0].IsCorrect {
		t.Fatalf("verdict lost: %+v", decoded.Results[0])
	}
	if decoded.Grade.Letter != "A" {
		t.Fatalf("grade = %q, want A", decoded.Grade.Letter)
	}
}

func TestRun_WritesPDFWhenRequested(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "results.json")
	pdfOut := filepath.Join(dir, "results.pdf")
	cfg := Config{InputPath: writeInput(t, sampleDoc), OutputPath: out, OutputPDFPath: pdfOut, LLMModel: "test-model"}
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.client = &fakeClient{reply: `{"is_correct": false, "correct_answer": "x", "explanation": "No.", "suggestion": "Retry."}`}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(pdfOut); err != nil {
		t.Fatalf("PDF report missing: %v", err)
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(context.Background(), Config{Provider: "watson"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

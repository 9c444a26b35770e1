// Package evaluate submits extracted question/answer pairs to a language
// model and turns its replies into per-question verdicts. Failures never
// abort a batch: a pair whose call or parse fails yields an error or
// indeterminate verdict while the rest of the document is still graded.
package evaluate

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v5"
	openai "github.com/sashabaranov/go-openai"

	"github.com/docugrade/docugrade/internal/cache"
	"github.com/docugrade/docugrade/internal/llm"
	"github.com/docugrade/docugrade/internal/qaextract"
)

// Verdict is the evaluator's judgment on a single question/answer pair.
// IsCorrect is nil when the judgment is indeterminate (the model reply could
// not be decoded); Err is set when the call itself failed.
type Verdict struct {
	QuestionNum   string `json:"question_num"`
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	IsCorrect     *bool  `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
	Suggestion    string `json:"suggestion,omitempty"`
	Err           string `json:"error,omitempty"`
}

const systemMessage = "You are an expert assignment evaluator. Respond with strict JSON only, no narration. The JSON schema is {\"is_correct\": bool, \"correct_answer\": string, \"explanation\": string, \"suggestion\": string}. Judge whether the student's answer is correct, state the expected answer, explain why the answer is right or wrong, and suggest how it can be improved."

// defaultTimeout bounds a single model call, the only suspension point in
// the pipeline.
const defaultTimeout = 60 * time.Second

// Orchestrator calls the model once per pair and preserves input order.
type Orchestrator struct {
	Client llm.Client
	Model  string
	Cache  *cache.LLMCache
	// PerCallTimeout bounds each model call; zero means defaultTimeout.
	PerCallTimeout time.Duration
}

// Evaluate returns exactly one verdict per input pair, in the same order.
// A zero-pair input returns nil without touching the model; callers should
// short-circuit before reaching this point anyway.
func (o *Orchestrator) Evaluate(ctx context.Context, pairs []qaextract.Pair) []Verdict {
	if len(pairs) == 0 {
		return nil
	}
	verdicts := make([]Verdict, 0, len(pairs))
	for _, p := range pairs {
		verdicts = append(verdicts, o.evaluateOne(ctx, p))
	}
	return verdicts
}

func (o *Orchestrator) evaluateOne(ctx context.Context, p qaextract.Pair) Verdict {
	v := Verdict{QuestionNum: p.Num, Question: p.Question, UserAnswer: p.Answer}
	user := buildUserMessage(p)

	if o.Cache != nil {
		key := cache.KeyFrom(o.Model, systemMessage+"\n\n"+user)
		if raw, ok, _ := o.Cache.Get(ctx, key); ok {
			if a, ok := tryParseAnalysis(string(raw)); ok {
				applyAnalysis(&v, a)
				return v
			}
		}
	}

	raw, err := o.callWithRetry(ctx, user)
	if err != nil {
		log.Warn().Err(err).Str("question_num", p.Num).Msg("evaluation call failed")
		v.Err = fmt.Sprintf("failed to analyze: %v", err)
		return v
	}

	a := decodeAnalysis(raw)
	applyAnalysis(&v, a)

	if o.Cache != nil && !a.placeholder {
		if b, err := json.Marshal(a); err == nil {
			_ = o.Cache.Save(ctx, cache.KeyFrom(o.Model, systemMessage+"\n\n"+user), b)
		}
	}
	return v
}

// callWithRetry performs the chat call with a per-call timeout and a single
// short-backoff retry for transient failures.
func (o *Orchestrator) callWithRetry(ctx context.Context, user string) (string, error) {
	timeout := o.PerCallTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	req := openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.0,
		N:           1,
	}

	call := func() (string, error) {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		resp, err := o.Client.CreateChatCompletion(cctx, req)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no choices in response")
		}
		return resp.Choices[0].Message.Content, nil
	}

	raw, err := call()
	if err == nil {
		return raw, nil
	}
	if sleeper := sleepFunc; sleeper != nil {
		sleeper(100)
	} else {
		defaultSleep(100)
	}
	raw, err = call()
	if err != nil {
		return "", fmt.Errorf("evaluation call (after retry): %w", err)
	}
	return raw, nil
}

func buildUserMessage(p qaextract.Pair) string {
	var sb strings.Builder
	sb.WriteString("Question: ")
	sb.WriteString(p.Question)
	sb.WriteString("\nAnswer: ")
	sb.WriteString(p.Answer)
	return sb.String()
}

// analysis is the payload the model is contracted to return.
type analysis struct {
	IsCorrect     *bool  `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	Suggestion    string `json:"suggestion"`

	placeholder bool
}

func applyAnalysis(v *Verdict, a analysis) {
	v.IsCorrect = a.IsCorrect
	v.CorrectAnswer = a.CorrectAnswer
	v.Explanation = a.Explanation
	v.Suggestion = a.Suggestion
}

const analysisSchema = `{
  "type": "object",
  "properties": {
    "is_correct": {"type": ["boolean", "null"]},
    "correct_answer": {"type": "string"},
    "explanation": {"type": "string"},
    "suggestion": {"type": "string"}
  },
  "required": ["is_correct"]
}`

var compiledAnalysisSchema = jsonschema.MustCompileString("analysis.schema.json", analysisSchema)

var payloadRe = regexp.MustCompile(`\{.*?\}`)

// decodeAnalysis applies the three-tier decode contract: strict parse, then
// recovery of a structured payload from free-form surrounding text, then a
// placeholder marking the judgment indeterminate.
func decodeAnalysis(raw string) analysis {
	raw = strings.TrimSpace(stripCodeFences(raw))
	if a, ok := tryParseAnalysis(raw); ok {
		return a
	}
	flat := strings.ReplaceAll(raw, "\n", " ")
	if m := payloadRe.FindString(flat); m != "" {
		if a, ok := tryParseAnalysis(m); ok {
			return a
		}
	}
	return analysis{
		CorrectAnswer: "Unable to determine",
		Explanation:   "Error processing the response",
		Suggestion:    "Please try again",
		placeholder:   true,
	}
}

// tryParseAnalysis accepts a candidate payload only when it is valid JSON
// and conforms to the analysis schema.
func tryParseAnalysis(s string) (analysis, bool) {
	var generic any
	if err := json.Unmarshal([]byte(s), &generic); err != nil {
		return analysis{}, false
	}
	if err := compiledAnalysisSchema.Validate(generic); err != nil {
		return analysis{}, false
	}
	var a analysis
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return analysis{}, false
	}
	return a, true
}

// stripCodeFences removes a surrounding markdown code fence, which chat
// models add despite the JSON-only contract.
func stripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		// Drop a language tag like ```json on the fence line.
		t = t[i+1:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

// sleepFunc lets tests substitute the retry backoff, measured in
// milliseconds.
var sleepFunc func(ms int)

func defaultSleep(ms int) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

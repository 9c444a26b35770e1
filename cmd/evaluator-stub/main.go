// evaluator-stub is a tiny OpenAI-compatible chat endpoint for exercising the
// pipeline without a real model. It judges an answer correct when it is
// non-empty and does not just parrot the question, which is enough for
// scripted end-to-end runs.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func main() {
	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		sys, user := "", ""
		for _, m := range req.Messages {
			switch m.Role {
			case "system":
				sys = m.Content
			case "user":
				user = m.Content
			}
		}
		if !strings.Contains(sys, "assignment evaluator") {
			http.Error(w, "unexpected system", http.StatusBadRequest)
			return
		}

		question, answer := splitPrompt(user)
		verdict := map[string]any{
			"is_correct":     answerLooksRight(question, answer),
			"correct_answer": "",
			"explanation":    "Stub judgment based on token overlap.",
			"suggestion":     "",
		}
		b, _ := json.Marshal(verdict)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": string(b)}},
			},
		})
	})

	log.Printf("evaluator-stub listening on %s (model=%s)", addr, model)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}

func splitPrompt(user string) (question, answer string) {
	for _, line := range strings.Split(user, "\n") {
		if s, ok := strings.CutPrefix(line, "Question: "); ok {
			question = s
		}
		if s, ok := strings.CutPrefix(line, "Answer: "); ok {
			answer = s
		}
	}
	return question, answer
}

func answerLooksRight(question, answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	if a == "" {
		return false
	}
	return !strings.Contains(strings.ToLower(question), a)
}

package ollama

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/caredx/genogram/pkg/ai"
)

func TestMessages(t *testing.T) {
	options := ai.ApplyOptions(ai.GenerateOptions{}, ai.WithSystemPrompts("system a", "system b"))
	msgs := messages(options, "本人と妹")

	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	wantRoles := []string{"system", "system", "user"}
	for i, role := range wantRoles {
		if msgs[i].Role != role {
			t.Fatalf("message %d: expected role %q, got %q", i, role, msgs[i].Role)
		}
	}
	if msgs[2].Content != "本人と妹" {
		t.Fatalf("unexpected user content %q", msgs[2].Content)
	}
}

func TestHeaderTransport(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	client := &http.Client{Transport: &headerTransport{
		headers: map[string]string{"Authorization": "Bearer secret"},
		rt:      http.DefaultTransport,
	}}

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	req, _ = http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("Authorization", "Bearer override")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if len(got) != 2 || got[0] != "Bearer secret" || got[1] != "Bearer override" {
		t.Fatalf("unexpected authorization headers %v", got)
	}
	if req.Header.Get("Authorization") != "Bearer override" {
		t.Fatalf("original request was modified")
	}
}

func TestNewGraphOllamaClient_Defaults(t *testing.T) {
	c, err := NewGraphOllamaClient(NewGraphOllamaClientParams{
		ExtractionModel: "llama3",
		BaseURL:         "http://localhost:11434",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.extractionModel != "llama3" {
		t.Fatalf("unexpected extraction model %q", c.extractionModel)
	}
	if !c.reqLock.TryAcquire(1) {
		t.Fatal("expected one request slot")
	}
	if c.reqLock.TryAcquire(1) {
		t.Fatal("expected exactly one request slot")
	}
	c.reqLock.Release(1)
}

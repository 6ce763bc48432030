package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeService serves a canned chat completion reply and records the last request.
type fakeService struct {
	status int
	body   string
	last   map[string]any
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/chat/completions" {
		http.NotFound(w, r)
		return
	}
	_ = json.NewDecoder(r.Body).Decode(&f.last)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}

func newFake(t *testing.T, status int, body string) (*fakeService, *Client) {
	t.Helper()
	fake := &fakeService{status: status, body: body}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return fake, New(srv.URL+"/", "test-key", "", 0)
}

const completion = `{
  "id": "cmpl-1",
  "object": "chat.completion",
  "created": 1,
  "model": "claude-sonnet-4-20250514",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": %s}}]
}`

func reply(content string) string {
	b, _ := json.Marshal(content)
	return fmt.Sprintf(completion, string(b))
}

func TestCompleteText(t *testing.T) {
	fake, client := newFake(t, http.StatusOK, reply(`{"exam":{},"markScheme":{}}`))

	got, err := client.Complete(context.Background(), "write an exam")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != `{"exam":{},"markScheme":{}}` {
		t.Errorf("Complete() = %q", got)
	}

	if fake.last["model"] != DefaultModel {
		t.Errorf("model = %v, want %s", fake.last["model"], DefaultModel)
	}
	if fake.last["max_tokens"] != float64(DefaultMaxTokens) {
		t.Errorf("max_tokens = %v, want %d", fake.last["max_tokens"], DefaultMaxTokens)
	}
	msgs, _ := fake.last["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	msg := msgs[0].(map[string]any)
	if msg["role"] != "user" || msg["content"] != "write an exam" {
		t.Errorf("unexpected message %v", msg)
	}
}

func TestCompleteConcatenatesTextParts(t *testing.T) {
	parts := `[{"type":"text","text":"{\"exam\":"},{"type":"image_url","image_url":{"url":"x"}},{"type":"text","text":"{}}"}]`
	_, client := newFake(t, http.StatusOK, fmt.Sprintf(completion, parts))

	got, err := client.Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != `{"exam":{}}` {
		t.Errorf("Complete() = %q, want concatenated text parts", got)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	_, client := newFake(t, http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`)

	_, err := client.Complete(context.Background(), "p")
	if !errors.Is(err, ErrUpstreamOther) {
		t.Fatalf("err = %v, want ErrUpstreamOther", err)
	}
}

func TestCompleteClassifiesErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
	}{
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`,
			kind:    ErrUpstreamAuth,
			message: "invalid x-api-key",
		},
		{
			name:    "bad request",
			status:  http.StatusBadRequest,
			body:    `{"error":{"type":"invalid_request_error","message":"max_tokens: too large"}}`,
			kind:    ErrUpstreamRejected,
			message: "max_tokens: too large",
		},
		{
			name:    "overloaded",
			status:  529,
			body:    `{"error":{"type":"overloaded_error","message":"Overloaded"}}`,
			kind:    ErrUpstreamOther,
			message: "Overloaded",
		},
		{
			name:   "server error without body",
			status: http.StatusInternalServerError,
			body:   `oops`,
			kind:   ErrUpstreamOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newFake(t, tt.status, tt.body)

			_, err := client.Complete(context.Background(), "p")
			if !errors.Is(err, tt.kind) {
				t.Fatalf("err = %v, want kind %v", err, tt.kind)
			}
			var se *ServiceError
			if !errors.As(err, &se) {
				t.Fatalf("err = %T, want *ServiceError", err)
			}
			if se.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", se.StatusCode, tt.status)
			}
			if tt.message != "" && se.Message != tt.message {
				t.Errorf("Message = %q, want %q", se.Message, tt.message)
			}
			if se.Message == "" {
				t.Error("Message should never be empty")
			}
		})
	}
}

func TestCompleteCanceled(t *testing.T) {
	_, client := newFake(t, http.StatusOK, reply("{}"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, "p")
	if !errors.Is(err, ErrUpstreamOther) {
		t.Fatalf("err = %v, want ErrUpstreamOther", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want it to wrap context.Canceled", err)
	}
}

func TestNewDefaults(t *testing.T) {
	c := New("", "k", "", 0)
	if c.Model() != DefaultModel {
		t.Errorf("Model() = %q, want %q", c.Model(), DefaultModel)
	}
	if c.maxTokens != DefaultMaxTokens {
		t.Errorf("maxTokens = %d, want %d", c.maxTokens, DefaultMaxTokens)
	}

	c = New("http://localhost:1/v1", "k", "other", 100)
	if c.Model() != "other" || c.maxTokens != 100 {
		t.Errorf("explicit arguments not kept: %q %d", c.Model(), c.maxTokens)
	}
}

package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hupe1980/actormesh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var _ model.Model = (*Model)(nil)

func TestBuildMessages(t *testing.T) {
	msgs := buildMessages(model.Request{
		Instructions: "be brief",
		Messages: []model.Message{
			{Role: model.RoleUser, Text: "hi"},
			{Role: model.RoleAssistant, Text: "hello"},
			{Role: model.RoleUser, Text: ""},
		},
	})

	require.Len(t, msgs, 3)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	assert.NotNil(t, msgs[2].OfAssistant)
}

func TestBuildMessages_NoInstructions(t *testing.T) {
	msgs := buildMessages(model.Request{Messages: []model.Message{{Role: "tool", Text: "x"}}})
	require.Len(t, msgs, 1)
	assert.NotNil(t, msgs[0].OfUser)
}

func TestBuildParams(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.APIKey = "test"
		o.Model = "gpt-test"
	})
	params := m.buildParams(model.Request{Messages: []model.Message{{Role: model.RoleUser, Text: "hi"}}})
	assert.Equal(t, "gpt-test", params.Model)
	assert.Len(t, params.Messages, 1)

	assert.Equal(t, model.Info{Name: "gpt-test", Provider: "openai"}, m.Info())
}

func newTestModel(t *testing.T, handler http.HandlerFunc) *Model {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewModel(func(o *Options) {
		o.APIKey = "test"
		o.BaseURL = srv.URL
		o.Model = "gpt-test"
	})
}

func writeChunks(w http.ResponseWriter, chunks ...string) {
	w.Header().Set("Content-Type", "text/event-stream")
	for _, c := range chunks {
		fmt.Fprintf(w, "data: %s\n\n", c)
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
}

func chunk(content, finish string) string {
	finishJSON := "null"
	if finish != "" {
		finishJSON = fmt.Sprintf("%q", finish)
	}
	return fmt.Sprintf(`{"id":"chatcmpl-1","object":"chat.completion.chunk","created":1,"model":"gpt-test","choices":[{"index":0,"delta":{"content":%q},"finish_reason":%s}]}`, content, finishJSON)
}

func TestGenerate_NonStreaming(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-test",`+
			`"choices":[{"index":0,"message":{"role":"assistant","content":"Hello"},"finish_reason":"stop"}],`+
			`"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`)
	})

	resp, err := model.Complete(context.Background(), m, model.Request{Messages: []model.Message{{Role: model.RoleUser, Text: "hi"}}})
	require.NoError(t, err)
	assert.Equal(t, "Hello", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 5, resp.Usage.TotalTokens)
}

func TestGenerate_Streaming(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
		writeChunks(w, chunk("Hel", ""), chunk("lo", ""), chunk("", "stop"))
	})

	var partials []string
	resp, err := model.CompleteStream(context.Background(), m, model.Request{
		Messages: []model.Message{{Role: model.RoleUser, Text: "hi"}},
	}, func(r model.Response) { partials = append(partials, r.Text) })
	require.NoError(t, err)

	assert.Equal(t, []string{"Hel", "lo"}, partials)
	assert.Equal(t, "Hello", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, "chatcmpl-1", resp.ID)
}

func TestGenerate_StreamingStopsWhenConsumerGivesUp(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, _ *http.Request) {
		chunks := make([]string, 0, 100)
		for i := 0; i < 100; i++ {
			chunks = append(chunks, chunk("x", ""))
		}
		writeChunks(w, chunks...)
	})

	ctx, cancel := context.WithCancel(context.Background())
	respCh, errCh := m.Generate(ctx, model.Request{
		Messages: []model.Message{{Role: model.RoleUser, Text: "hi"}},
		Stream:   true,
	})

	select {
	case <-respCh:
	case <-time.After(2 * time.Second):
		t.Fatal("no partial response")
	}
	cancel()

	// Nobody reads the responses any more; the producer must still finish.
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-errCh:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

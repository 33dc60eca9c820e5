package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModel_DefaultAndCannedResponses(t *testing.T) {
	m := NewMockModel("mock-1")
	m.AddResponse("hi", "hello there")

	resp, err := Complete(context.Background(), m, Request{Messages: []Message{{Role: RoleUser, Text: "hi"}}})
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)

	resp, err = Complete(context.Background(), m, Request{Messages: []Message{{Role: RoleUser, Text: "other"}}})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: other", resp.Text)

	assert.Len(t, m.Requests(), 2)
	assert.Equal(t, Info{Name: "mock-1", Provider: "mock"}, m.Info())
}

func TestMockModel_Streaming(t *testing.T) {
	m := NewMockModel("mock")
	m.AddResponse("q", "abc")

	respCh, errCh := m.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Text: "q"}},
		Stream:   true,
	})

	var partials []string
	var final Response
	for r := range respCh {
		if r.Partial {
			partials = append(partials, r.Text)
		} else {
			final = r
		}
	}
	require.NoError(t, <-errCh)
	assert.Equal(t, []string{"a", "b", "c"}, partials)
	assert.Equal(t, "abc", final.Text)
}

func TestComplete_PropagatesModelError(t *testing.T) {
	m := NewMockModel("mock")
	_, err := Complete(context.Background(), m, Request{})
	assert.EqualError(t, err, "no messages provided")
}

type silentModel struct{}

func (silentModel) Generate(context.Context, Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response)
	errCh := make(chan error)
	close(respCh)
	close(errCh)
	return respCh, errCh
}

func (silentModel) Info() Info { return Info{Name: "silent"} }

func TestComplete_NoFinalResponse(t *testing.T) {
	_, err := Complete(context.Background(), silentModel{}, Request{})
	assert.True(t, errors.Is(err, ErrNoResponse))
}

func TestComplete_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMockModel("mock")
	_, err := Complete(ctx, m, Request{Messages: []Message{{Role: RoleUser, Text: "x"}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompleteStream_ForwardsPartials(t *testing.T) {
	m := NewMockModel("mock")
	m.AddResponse("q", "hey")

	var partials []string
	resp, err := CompleteStream(context.Background(), m, Request{Messages: []Message{{Role: RoleUser, Text: "q"}}}, func(r Response) {
		partials = append(partials, r.Text)
	})
	require.NoError(t, err)
	assert.Equal(t, "hey", resp.Text)
	assert.Equal(t, []string{"h", "e", "y"}, partials)

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].Stream)
}

func TestSend_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan Response) // nobody reads
	assert.False(t, Send(ctx, out, Response{Text: "lost"}))

	buffered := make(chan Response, 1)
	assert.True(t, Send(context.Background(), buffered, Response{Text: "kept"}))
	assert.Equal(t, "kept", (<-buffered).Text)
}

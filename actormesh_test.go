package actormesh

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/actormesh/actor"
	"github.com/hupe1980/actormesh/model"
)

func TestMesh_ConverseWithEcho(t *testing.T) {
	var out bytes.Buffer
	m := New(func(o *Options) {
		o.Input = strings.NewReader("hello\nexit\n")
		o.Output = &out
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, m.Converse(ctx, "What can I do for you?"))

	statuses := m.Shutdown(ctx)
	assert.Len(t, statuses, 2)
	for _, s := range statuses {
		assert.True(t, s.Clean(), s.String())
	}

	assert.Equal(t, ">>> What can I do for you?\n>>> hello\n", out.String())
}

func TestMesh_ConverseWithModel(t *testing.T) {
	mock := model.NewMockModel("mock")
	mock.AddResponse("hello", "Hi there")

	var out bytes.Buffer
	m := New(func(o *Options) {
		o.Model = mock
		o.Instructions = "be brief"
		o.Input = strings.NewReader("hello\n")
		o.Output = &out
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, m.Converse(ctx, "Welcome"))
	m.Shutdown(ctx)

	assert.Equal(t, ">>> Welcome\n>>> Hi there\n", out.String())

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "be brief", reqs[0].Instructions)
	require.NotEmpty(t, reqs[0].Messages)
	assert.Equal(t, "hello", reqs[0].Messages[len(reqs[0].Messages)-1].Text)
}

func TestMesh_Directory(t *testing.T) {
	m := New(func(o *Options) {
		o.Input = strings.NewReader("")
		o.Output = &bytes.Buffer{}
		o.UserName = "alice"
		o.AssistantName = "bot"
	})
	defer m.Shutdown(context.Background())

	assert.Equal(t, 2, m.Directory().Len())
	assert.Equal(t, 2, m.Engine().Len())

	entry, ok := m.Directory().LookupName("bot")
	require.True(t, ok)
	assert.Equal(t, m.Assistant().ID(), entry.ID)

	entry, ok = m.Directory().LookupName("alice")
	require.True(t, ok)
	assert.Equal(t, m.User().ID(), entry.ID)
}

func TestMesh_ConverseAfterShutdown(t *testing.T) {
	m := New(func(o *Options) {
		o.Input = strings.NewReader("")
		o.Output = &bytes.Buffer{}
	})
	m.Shutdown(context.Background())

	err := m.Converse(context.Background(), "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, actor.ErrAgentStopped)
}

func TestMesh_ConverseContextDone(t *testing.T) {
	// The user never types anything, so only ctx can end the conversation.
	r, w := io.Pipe()
	m := New(func(o *Options) {
		o.Input = r
		o.Output = &bytes.Buffer{}
	})
	defer m.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := m.Converse(ctx, "hi")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, w.Close())
}

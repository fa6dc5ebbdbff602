package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen2html/internal/llm"
)

// recorder replies from a fixed script and records what it was sent
type recorder struct {
	replies []string
	errAt   int
	calls   [][]llm.Message
}

func (r *recorder) Generate(_ context.Context, messages []llm.Message) (string, error) {
	r.calls = append(r.calls, messages)
	n := len(r.calls)
	if n == r.errAt {
		return "", errors.New("network down")
	}
	return r.replies[n-1], nil
}

func TestSend_AccumulatesContext(t *testing.T) {
	rec := &recorder{replies: []string{"first", "second"}}
	c := New(rec)
	img := &llm.Image{MIMEType: "image/jpeg", Data: []byte("jpeg")}

	out, err := c.Send(context.Background(), "one", img)
	require.NoError(t, err)
	assert.Equal(t, "first", out)

	out, err = c.Send(context.Background(), "two", nil)
	require.NoError(t, err)
	assert.Equal(t, "second", out)

	require.Len(t, rec.calls, 2)
	assert.Len(t, rec.calls[0], 1)
	require.Len(t, rec.calls[1], 3)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "one", Image: img}, rec.calls[1][0])
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: "first"}, rec.calls[1][1])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "two"}, rec.calls[1][2])

	assert.Equal(t, 4, c.Len())
}

func TestSend_FailureKeepsPrompt(t *testing.T) {
	rec := &recorder{replies: []string{"ok"}, errAt: 2}
	c := New(rec)

	_, err := c.Send(context.Background(), "a", nil)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), "b", nil)
	require.Error(t, err)

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, llm.RoleUser, msgs[2].Role)
	assert.Equal(t, "b", msgs[2].Content)
}

func TestSystemPromptLeadsTheLog(t *testing.T) {
	rec := &recorder{replies: []string{"ok"}}
	c := New(rec, WithSystemPrompt("you write html"))

	_, err := c.Send(context.Background(), "hi", nil)
	require.NoError(t, err)
	require.Len(t, rec.calls[0], 2)
	assert.Equal(t, llm.RoleSystem, rec.calls[0][0].Role)

	assert.Equal(t, 0, New(rec, WithSystemPrompt("")).Len())
}

func TestMessagesIsACopy(t *testing.T) {
	c := New(&recorder{replies: []string{"ok"}})
	_, err := c.Send(context.Background(), "hi", nil)
	require.NoError(t, err)

	msgs := c.Messages()
	msgs[0].Content = "changed"
	assert.Equal(t, "hi", c.Messages()[0].Content)
}

package history

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen2html/internal/llm"
)

func TestAppend_FillsIDAndTimestamp(t *testing.T) {
	l := NewLog()
	got := l.Append(Turn{Role: llm.RoleUser, Content: "hi"})

	_, err := uuid.Parse(got.ID)
	require.NoError(t, err)
	assert.False(t, got.Timestamp.IsZero())

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	kept := l.Append(Turn{ID: "fixed", Role: llm.RoleAssistant, Timestamp: at})
	assert.Equal(t, "fixed", kept.ID)
	assert.Equal(t, at, kept.Timestamp)
}

func TestTurns_AppendOnlyCopies(t *testing.T) {
	l := NewLog()
	l.Append(Turn{Role: llm.RoleUser, Content: "a"})
	l.Append(Turn{Role: llm.RoleAssistant, Content: "b"})

	snap := l.Turns()
	snap[0].Content = "mutated"
	l.Append(Turn{Role: llm.RoleUser, Content: "c"})

	turns := l.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "a", turns[0].Content)
	assert.Equal(t, "b", turns[1].Content)
	assert.Equal(t, "c", turns[2].Content)
	assert.Len(t, snap, 2)
}

func TestRecent(t *testing.T) {
	l := NewLog()
	assert.Empty(t, l.Recent(3))

	for _, c := range []string{"1", "2", "3", "4"} {
		l.Append(Turn{Role: llm.RoleUser, Content: c})
	}

	tests := []struct {
		n    int
		want []string
	}{
		{0, nil},
		{2, []string{"3", "4"}},
		{10, []string{"1", "2", "3", "4"}},
	}
	for _, tt := range tests {
		var got []string
		for _, turn := range l.Recent(tt.n) {
			got = append(got, turn.Content)
		}
		assert.Equal(t, tt.want, got, "n=%d", tt.n)
	}
}

func TestCaption(t *testing.T) {
	assert.Equal(t, "user", Turn{Role: llm.RoleUser}.Caption())
	assert.Equal(t, LabelInitialHTML, Turn{Role: llm.RoleAssistant, Label: LabelInitialHTML}.Caption())
}

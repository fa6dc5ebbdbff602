package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"screen2html/internal/history"
	"screen2html/internal/llm"
	"screen2html/internal/pipeline"
)

func TestDisplay_FollowsStages(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisplay(&buf)

	d.StageStarted(pipeline.StageDescribe)
	d.StageFinished(pipeline.StageDescribe, "A login form with two fields", nil, 1500*time.Millisecond)
	d.StageStarted(pipeline.StageGenerateHTML)
	d.StageFinished(pipeline.StageGenerateHTML, "<html></html>", nil, 20*time.Millisecond)
	d.StageStarted(pipeline.StageRefineHTML)
	d.StageFinished(pipeline.StageRefineHTML, "", errors.New("boom"), time.Second)

	out := buf.String()
	assert.Contains(t, out, "Looking at your UI...")
	assert.Contains(t, out, "login form")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "Generating website · 13 chars · 20ms")
	assert.NotContains(t, out, "<html></html>")
	assert.Contains(t, out, "Refining website failed")
}

func TestDisplay_PrintHistory(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisplay(&buf)

	d.PrintHistory(nil)
	assert.Contains(t, buf.String(), "No conversation yet")

	buf.Reset()
	d.PrintHistory([]history.Turn{
		{Role: llm.RoleAssistant, Label: history.LabelInitialHTML, Content: "<h1>Hi</h1>", Timestamp: time.Now()},
		{Role: llm.RoleUser, Content: "make it red", Timestamp: time.Now()},
	})
	out := buf.String()
	assert.Contains(t, out, "Initial HTML Code")
	assert.Contains(t, out, "<h1>Hi</h1>")
	assert.Contains(t, out, "user")
	assert.Contains(t, out, "make it red")
}

func TestDisplay_PrintPreview(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisplay(&buf)

	d.PrintPreview(`<html><head><title>Login</title></head><body><h1>Welcome</h1><button>Sign in</button></body></html>`)
	out := buf.String()
	assert.Contains(t, out, "Login")
	assert.Contains(t, out, "Welcome")
	assert.Contains(t, out, "Sign in")
}

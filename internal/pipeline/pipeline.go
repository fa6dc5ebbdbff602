// Package pipeline turns a screenshot into HTML through four fixed model
// calls and applies free-form edit requests to the result.
//
// A run is strictly sequential: each stage's prompt literally contains the
// previous stage's output.
//
//	Describe -> Refine-Description -> Generate-HTML -> Refine-HTML
//
// Only the last output is committed to the session. Any failure aborts the
// run; nothing is rolled back, so prompts already sent stay in the dialogue.
package pipeline

import (
	"context"
	"strings"
	"time"

	"screen2html/internal/history"
	"screen2html/internal/llm"
	"screen2html/internal/logger"
	"screen2html/internal/session"
)

const module = "pipeline"

// Result holds the artifacts of one run
type Result struct {
	Description        string
	RefinedDescription string
	InitialHTML        string
	RefinedHTML        string
}

// Pipeline runs stages against a session's dialogue
type Pipeline struct {
	prompts  Prompts
	observer Observer
	log      logger.ILogger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithObservers registers observers for every stage event
func WithObservers(obs ...Observer) Option {
	return func(p *Pipeline) {
		p.observer = Observers(obs)
	}
}

// WithLogger sets the logger
func WithLogger(l logger.ILogger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// New creates a pipeline that asks for the given CSS framework
func New(framework string, opts ...Option) *Pipeline {
	if framework == "" {
		framework = DefaultFramework
	}
	p := &Pipeline{
		prompts:  Prompts{Framework: framework},
		observer: Observers{},
		log:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prompts returns the prompt builder in use
func (p *Pipeline) Prompts() Prompts {
	return p.prompts
}

// Run executes the four stages on img. On success the refined HTML becomes
// the session's current HTML and is appended as one assistant turn.
func (p *Pipeline) Run(ctx context.Context, s *session.Session, img llm.Image) (*Result, error) {
	p.log.Info(module, "pipeline started", map[string]interface{}{
		"session_id": s.ID,
		"image_mime": img.MIMEType,
		"image_size": len(img.Data),
	})

	res := &Result{}
	var err error

	if res.Description, err = p.step(ctx, s, StageDescribe, p.prompts.Describe(), &img); err != nil {
		return nil, err
	}
	if res.RefinedDescription, err = p.step(ctx, s, StageRefineDescription, p.prompts.RefineDescription(res.Description), &img); err != nil {
		return nil, err
	}
	if res.InitialHTML, err = p.step(ctx, s, StageGenerateHTML, p.prompts.GenerateHTML(res.RefinedDescription), &img); err != nil {
		return nil, err
	}
	if res.RefinedHTML, err = p.step(ctx, s, StageRefineHTML, p.prompts.RefineHTML(res.InitialHTML), &img); err != nil {
		return nil, err
	}

	s.State.Commit(history.LabelInitialHTML, res.RefinedHTML)

	p.log.Info(module, "pipeline finished", map[string]interface{}{
		"session_id": s.ID,
		"html_size":  len(res.RefinedHTML),
	})
	return res, nil
}

// Refine applies a free-form edit request to the current HTML. The request is
// echoed into the history before the model is called and stays there if the
// call fails. Blank requests, and requests made before any HTML exists, are
// rejected without touching the session.
func (p *Pipeline) Refine(ctx context.Context, s *session.Session, request string) (string, error) {
	if strings.TrimSpace(request) == "" {
		return "", ErrEmptyRequest
	}
	current := s.State.CurrentHTML()
	if current == "" {
		return "", ErrNoHTML
	}

	s.State.AppendUser(request)

	html, err := p.step(ctx, s, StageFollowUp, p.prompts.FollowUp(current, request), nil)
	if err != nil {
		return "", err
	}

	s.State.Commit("", html)
	return html, nil
}

func (p *Pipeline) step(ctx context.Context, s *session.Session, stage Stage, prompt string, img *llm.Image) (string, error) {
	if stage.Image() == OmitImage {
		img = nil
	}

	p.observer.StageStarted(stage)
	start := time.Now()

	out, err := s.Conversation.Send(ctx, prompt, img)
	if err == nil && strings.TrimSpace(out) == "" {
		err = ErrEmptyOutput
	}
	elapsed := time.Since(start)

	p.observer.StageFinished(stage, out, err, elapsed)

	if err != nil {
		p.log.Error(module, "stage failed", map[string]interface{}{
			"session_id": s.ID,
			"stage":      stage.String(),
			"elapsed_ms": elapsed.Milliseconds(),
			"error":      err,
		})
		return "", &StageError{Stage: stage, Err: err}
	}

	p.log.Debug(module, "stage finished", map[string]interface{}{
		"session_id":   s.ID,
		"stage":        stage.String(),
		"elapsed_ms":   elapsed.Milliseconds(),
		"output_chars": len(out),
		"with_image":   img != nil,
	})
	return out, nil
}

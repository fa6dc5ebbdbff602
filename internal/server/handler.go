package server

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"screen2html/internal/artifact"
	"screen2html/internal/history"
	"screen2html/internal/imageio"
	"screen2html/internal/session"
)

// SessionResponse describes a session's user-facing state
type SessionResponse struct {
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	CurrentHTML string         `json:"current_html"`
	History     []history.Turn `json:"history"`
}

// CodeResponse carries every artifact of a pipeline run
type CodeResponse struct {
	Description        string `json:"description"`
	RefinedDescription string `json:"refined_description"`
	InitialHTML        string `json:"initial_html"`
	HTML               string `json:"html"`
}

// ChatRequest is a free-form edit request
type ChatRequest struct {
	Message string `json:"message" form:"message"`
}

// ChatResponse carries the updated HTML
type ChatResponse struct {
	HTML string `json:"html"`
}

func success(message string, data interface{}) fiber.Map {
	return fiber.Map{"message": message, "data": data}
}

// toResponse describes sess with its last n turns, or all of them for n <= 0
func toResponse(sess *session.Session, n int) SessionResponse {
	html, turns := sess.State.SnapshotRecent(n)
	return SessionResponse{
		ID:          sess.ID,
		CreatedAt:   sess.CreatedAt,
		CurrentHTML: html,
		History:     turns,
	}
}

func (s *Server) lookup(c *fiber.Ctx) (*session.Session, error) {
	sess, ok := s.store.Get(c.Params("id"))
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// acquire looks the session up and claims it for the rest of the request
func (s *Server) acquire(c *fiber.Ctx) (*session.Session, func(), error) {
	sess, err := s.lookup(c)
	if err != nil {
		return nil, nil, err
	}
	release, ok := sess.Acquire()
	if !ok {
		return nil, nil, session.ErrBusy
	}
	return sess, release, nil
}

func (s *Server) syncSessionGauge() {
	if s.metrics != nil {
		s.metrics.SessionsActive.Set(float64(s.store.Count()))
	}
}

func (s *Server) createSession(c *fiber.Ctx) error {
	sess := s.newSession()
	s.store.Save(sess)
	s.syncSessionGauge()

	s.log.Info(module, "session created", map[string]interface{}{"session_id": sess.ID})
	return c.Status(fiber.StatusCreated).JSON(success("Session created", toResponse(sess, 0)))
}

func (s *Server) showSession(c *fiber.Ctx) error {
	last := c.QueryInt("last", 0)
	if last < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "last must not be negative")
	}

	sess, err := s.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(success("Success get session", toResponse(sess, last)))
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	sess, err := s.lookup(c)
	if err != nil {
		return err
	}
	s.store.Delete(sess.ID)
	s.syncSessionGauge()

	s.log.Info(module, "session deleted", map[string]interface{}{"session_id": sess.ID})
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) code(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart field \"image\" is required")
	}
	if fh.Size > int64(s.maxUpload) {
		return imageio.ErrTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	img, err := imageio.Ingest(f)
	if err != nil {
		return err
	}

	sess, release, err := s.acquire(c)
	if err != nil {
		return err
	}
	defer release()

	res, err := s.pipeline.Run(c.UserContext(), sess, img)
	if err != nil {
		return err
	}

	return c.JSON(success("HTML generated", CodeResponse{
		Description:        res.Description,
		RefinedDescription: res.RefinedDescription,
		InitialHTML:        res.InitialHTML,
		HTML:               res.RefinedHTML,
	}))
}

func (s *Server) chat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	sess, release, err := s.acquire(c)
	if err != nil {
		return err
	}
	defer release()

	html, err := s.pipeline.Refine(c.UserContext(), sess, req.Message)
	if err != nil {
		return err
	}

	return c.JSON(success("HTML updated", ChatResponse{HTML: html}))
}

// previewPage wraps the page in a container that tracks the window width
const previewPage = `<div id="preview-container">
%s
</div>
<script>
  const container = document.getElementById('preview-container');
  function resizeContainer() {
    container.style.width = window.innerWidth + 'px';
  }
  resizeContainer();
  window.addEventListener('resize', resizeContainer);
</script>
`

func (s *Server) preview(c *fiber.Ctx) error {
	sess, err := s.lookup(c)
	if err != nil {
		return err
	}
	html := sess.State.CurrentHTML()
	if html == "" {
		return artifact.ErrEmpty
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(fmt.Sprintf(previewPage, html))
}

func (s *Server) download(c *fiber.Ctx) error {
	sess, err := s.lookup(c)
	if err != nil {
		return err
	}
	html := sess.State.CurrentHTML()
	if html == "" {
		return artifact.ErrEmpty
	}

	c.Set(fiber.HeaderContentType, artifact.MIMEType)
	c.Set(fiber.HeaderContentDisposition, artifact.ContentDisposition())
	return c.SendString(html)
}

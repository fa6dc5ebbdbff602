package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"screen2html/internal/history"
	"screen2html/internal/llm"
	"screen2html/internal/pipeline"
	"screen2html/internal/preview"
	"screen2html/internal/terminal"
)

// Display renders the session in the terminal and follows pipeline progress
type Display struct {
	out      io.Writer
	width    int
	spinner  *terminal.Spinner
	renderer *glamour.TermRenderer
}

// NewDisplay creates a display writing to out
func NewDisplay(out io.Writer) *Display {
	width := terminal.Width(out, 80)

	style := "notty"
	if terminal.IsTerminal(out) {
		style = "dark"
	}

	// Create markdown renderer
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width-10),
	)

	return &Display{
		out:      out,
		width:    width,
		spinner:  terminal.NewSpinner(out),
		renderer: renderer,
	}
}

// Color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// StageStarted implements pipeline.Observer
func (d *Display) StageStarted(stage pipeline.Stage) {
	d.spinner.Start(stage.Title())
}

// StageFinished implements pipeline.Observer. Descriptions are shown as they
// arrive; HTML is only summarized here and printed once the run completes.
func (d *Display) StageFinished(stage pipeline.Stage, output string, err error, elapsed time.Duration) {
	d.spinner.Stop()
	if err != nil {
		fmt.Fprintf(d.out, "%s✗ %s failed after %s%s\n", colorRed, stage.Title(), formatDuration(elapsed), colorReset)
		return
	}

	if stage.ProducesHTML() {
		fmt.Fprintf(d.out, "%s✓ %s · %d chars · %s%s\n", colorGray, stage.Title(), len(output), formatDuration(elapsed), colorReset)
		return
	}

	fmt.Fprintf(d.out, "\n%s┌─ %s · %s%s\n", colorGray, stage.Title(), formatDuration(elapsed), colorReset)
	d.printBox(d.render(output))
	fmt.Fprintf(d.out, "%s└%s\n", colorGray, colorReset)
}

// ClearScreen clears the terminal
func (d *Display) ClearScreen() {
	fmt.Fprint(d.out, "\033[2J\033[H")
}

// PrintWelcome displays the welcome message
func (d *Display) PrintWelcome(provider, modelName, framework string) {
	fmt.Fprintf(d.out, "%s%s╔══════════════════════════════════════════════════════════╗%s\n", colorBold, colorCyan, colorReset)
	fmt.Fprintf(d.out, "%s%s║                                                          ║%s\n", colorBold, colorCyan, colorReset)
	fmt.Fprintf(d.out, "%s%s║          screen2html - Screenshot to HTML                ║%s\n", colorBold, colorCyan, colorReset)
	fmt.Fprintf(d.out, "%s%s║                                                          ║%s\n", colorBold, colorCyan, colorReset)
	fmt.Fprintf(d.out, "%s%s╚══════════════════════════════════════════════════════════╝%s\n", colorBold, colorCyan, colorReset)
	fmt.Fprintf(d.out, "\n%s%sModel:%s %s (%s) · %sFramework:%s %s\n", colorBold, colorGray, colorReset, modelName, provider, colorGray, colorReset, framework)
	fmt.Fprintf(d.out, "%sCommands:%s /code <image> | /html | /preview | /save [dir] | /history [n] | /clear | /exit\n", colorGray, colorReset)
	fmt.Fprintf(d.out, "%sAnything else is sent as a change request for the current HTML%s\n", colorGray, colorReset)
	fmt.Fprintln(d.out)
}

// PrintSeparator prints a visual separator
func (d *Display) PrintSeparator() {
	line := strings.Repeat("─", min(d.width, 80))
	fmt.Fprintf(d.out, "%s%s%s\n", colorDim, line, colorReset)
}

// PrintPrompt displays user input prompt
func (d *Display) PrintPrompt() {
	fmt.Fprintf(d.out, "\n%s%s❯%s ", colorBold, colorGreen, colorReset)
}

// PrintHistory renders the conversation as the user sees it
func (d *Display) PrintHistory(turns []history.Turn) {
	if len(turns) == 0 {
		d.PrintInfo("No conversation yet. Upload a screenshot with /code <image>")
		return
	}
	for _, t := range turns {
		fmt.Fprintf(d.out, "\n%s┌─ %s · %s%s\n", colorGray, t.Caption(), t.Timestamp.Format("15:04:05"), colorReset)
		content := t.Content
		if t.Role != llm.RoleUser {
			content = fence(content)
		}
		d.printBox(d.render(content))
		fmt.Fprintf(d.out, "%s└%s\n", colorGray, colorReset)
	}
}

// PrintHTML shows html as a highlighted code block
func (d *Display) PrintHTML(html string) {
	fmt.Fprintf(d.out, "\n%s┌─ index.html · %d chars%s\n", colorGray, len(html), colorReset)
	d.printBox(d.render(fence(html)))
	fmt.Fprintf(d.out, "%s└%s\n", colorGray, colorReset)
}

// PrintPreview shows the visible text of html
func (d *Display) PrintPreview(html string) {
	outline, err := preview.Extract(html, 500)
	if err != nil {
		d.PrintError(err)
		return
	}

	title := outline.Title
	if title == "" {
		title = "Untitled page"
	}
	fmt.Fprintf(d.out, "\n%s%s%s%s\n", colorBold, colorCyan, title, colorReset)
	d.PrintSeparator()
	for _, line := range strings.Split(outline.Text, "\n") {
		fmt.Fprintf(d.out, "  %s\n", line)
	}
	d.PrintSeparator()
}

// PrintInfo displays info message
func (d *Display) PrintInfo(msg string) {
	fmt.Fprintf(d.out, "%sℹ %s%s\n", colorCyan, msg, colorReset)
}

// PrintWarning displays warning message
func (d *Display) PrintWarning(msg string) {
	fmt.Fprintf(d.out, "%s⚠ %s%s\n", colorYellow, msg, colorReset)
}

// PrintError displays error message
func (d *Display) PrintError(err error) {
	fmt.Fprintf(d.out, "%s✗ Error: %v%s\n", colorRed, err, colorReset)
}

// PrintSuccess displays success message
func (d *Display) PrintSuccess(msg string) {
	fmt.Fprintf(d.out, "%s✓ %s%s\n", colorGreen, msg, colorReset)
}

// PrintGoodbye displays goodbye message
func (d *Display) PrintGoodbye() {
	fmt.Fprintf(d.out, "\n%s%sThank you for using screen2html!%s\n", colorBold, colorCyan, colorReset)
}

// render formats markdown, falling back to the raw text
func (d *Display) render(md string) string {
	if d.renderer == nil {
		return md
	}
	rendered, err := d.renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}

func (d *Display) printBox(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(d.out, "%s│%s %s\n", colorGray, colorReset, line)
	}
}

// Helper functions

func fence(html string) string {
	return "```html\n" + strings.TrimRight(html, "\n") + "\n```"
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

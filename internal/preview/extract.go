// Package preview produces a text rendering of generated HTML for terminals
// that cannot display the page itself.
package preview

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Outline is the visible text of a page
type Outline struct {
	Title string
	Text  string
}

// skipped elements never contribute visible text
var skipped = map[string]bool{
	"script":   true,
	"style":    true,
	"head":     true,
	"noscript": true,
	"template": true,
}

// blocks end a line of text
var blocks = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "header": true,
	"footer": true, "nav": true, "aside": true, "main": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"br": true, "tr": true, "form": true, "button": true, "label": true,
}

// Extract parses htmlContent and returns its title and visible text, one
// block element per line, truncated to about maxWords words (0 = no limit).
func Extract(htmlContent string, maxWords int) (Outline, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return Outline{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var sb strings.Builder
	extractBodyText(doc, &sb)

	return Outline{
		Title: strings.TrimSpace(extractTitle(doc)),
		Text:  truncateWords(cleanLines(sb.String()), maxWords),
	}, nil
}

// extractTitle finds and returns the page title
func extractTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return getNodeText(n)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := extractTitle(c); title != "" {
			return title
		}
	}

	return ""
}

// extractBodyText writes visible text, breaking lines at block elements
func extractBodyText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		if skipped[n.Data] {
			return
		}
		if n.Data == "img" {
			for _, a := range n.Attr {
				if a.Key == "alt" && a.Val != "" {
					sb.WriteString("[image: " + a.Val + "] ")
				}
			}
		}
	}

	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteString(" ")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractBodyText(c, sb)
	}

	if n.Type == html.ElementNode && blocks[n.Data] {
		sb.WriteString("\n")
	}
}

// getNodeText extracts all text from a node and its children
func getNodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(getNodeText(c))
	}

	return text.String()
}

// cleanLines collapses whitespace inside lines and drops empty ones
func cleanLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// truncateWords truncates text to approximately N words
func truncateWords(text string, maxWords int) string {
	if maxWords <= 0 {
		return text
	}
	count := 0
	for i, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if count+len(words) > maxWords {
			kept := strings.Split(text, "\n")[:i]
			kept = append(kept, strings.Join(words[:maxWords-count], " ")+"...")
			return strings.TrimSpace(strings.Join(kept, "\n"))
		}
		count += len(words)
	}
	return text
}

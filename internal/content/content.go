// Package content serves the embedded learning pages as HTML and as
// terminal-formatted text.
package content

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed topics/*.md
var topics embed.FS

var ErrTopicNotFound = errors.New("topic not found")

// Topic is one learning page.
type Topic struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown returns the raw page source.
func Markdown(slug string) ([]byte, error) {
	if slug == "" || strings.ContainsAny(slug, "/\\.") {
		return nil, fmt.Errorf("%w: %q", ErrTopicNotFound, slug)
	}
	src, err := topics.ReadFile(path.Join("topics", slug+".md"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTopicNotFound, slug)
	}
	return src, nil
}

// Topics lists the pages sorted by slug. The title is the first heading and
// the summary the first paragraph.
func Topics() ([]Topic, error) {
	entries, err := fs.ReadDir(topics, "topics")
	if err != nil {
		return nil, err
	}
	var out []Topic
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".md" {
			continue
		}
		slug := strings.TrimSuffix(e.Name(), ".md")
		src, err := Markdown(slug)
		if err != nil {
			return nil, err
		}
		title, summary := headline(src)
		out = append(out, Topic{Slug: slug, Title: title, Summary: summary})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func headline(src []byte) (title, summary string) {
	sc := bufio.NewScanner(bytes.NewReader(src))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case title == "" && strings.HasPrefix(line, "# "):
			title = strings.TrimPrefix(line, "# ")
		case title != "" && !strings.HasPrefix(line, "#"):
			return title, line
		}
	}
	return title, summary
}

// HTML renders a page body to HTML.
func HTML(slug string) (template.HTML, error) {
	src, err := Markdown(slug)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render %s: %w", slug, err)
	}
	// Page sources are embedded at build time, not user input.
	return template.HTML(buf.String()), nil
}

// Terminal renders a page for a terminal of the given width.
func Terminal(slug string, width int) (string, error) {
	src, err := Markdown(slug)
	if err != nil {
		return "", err
	}
	return RenderTerminal(string(src), width)
}

// RenderTerminal styles arbitrary markdown for a terminal.
func RenderTerminal(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	return r.Render(md)
}

package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"
)

// NewPost describes a post to scaffold
type NewPost struct {
	Title string
	Date  time.Time
	Draft bool
	Slug  string
}

// postHeader is the frontmatter written for a new post
type postHeader struct {
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
	Draft bool   `yaml:"draft"`
}

// Slugify lowercases title and joins its letter and digit runs with dashes
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		case r == '\'' || r == '’':
			// apostrophes join words: "I'm" -> "im"
		default:
			dash = true
		}
	}
	return b.String()
}

// Render produces the file contents for a new post
func (p NewPost) Render() ([]byte, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, errors.New("title is required")
	}

	date := p.Date
	if date.IsZero() {
		date = time.Now()
	}

	header, err := yaml.Marshal(postHeader{
		Title: strings.TrimSpace(p.Title),
		Date:  date.Format("2006-01-02"),
		Draft: p.Draft,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	return buf.Bytes(), nil
}

// WritePost creates dir/<slug>.md and returns its path. Existing files are
// never overwritten.
func WritePost(dir string, p NewPost) (string, error) {
	slug := strings.Trim(p.Slug, "/")
	if slug == "" {
		slug = Slugify(p.Title)
	}
	if slug == "" {
		return "", fmt.Errorf("cannot derive a slug from title %q", p.Title)
	}

	data, err := p.Render()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	target := filepath.Join(dir, slug+".md")
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrPostExists, target)
		}
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	return target, nil
}

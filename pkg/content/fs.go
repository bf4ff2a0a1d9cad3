package content

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// dateLayouts are tried in order when parsing frontmatter dates
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// frontMatter is the raw header of a post file
type frontMatter struct {
	Title string `yaml:"title" toml:"title" json:"title"`
	Date  string `yaml:"date" toml:"date" json:"date"`
	Draft bool   `yaml:"draft" toml:"draft" json:"draft"`
	Slug  string `yaml:"slug" toml:"slug" json:"slug"`
}

// FSIndex reads every .md file below a directory of a file system
type FSIndex struct {
	fsys fs.FS
	dir  string
}

// NewFSIndex creates an index over dir within fsys
func NewFSIndex(fsys fs.FS, dir string) *FSIndex {
	if dir == "" {
		dir = "."
	}
	return &FSIndex{fsys: fsys, dir: path.Clean(dir)}
}

// Documents walks the directory and parses each markdown file. Files are
// visited in lexical order. Two files resolving to the same slug fail with
// ErrDuplicateSlug.
func (x *FSIndex) Documents(ctx context.Context) ([]Document, error) {
	var docs []Document
	seen := make(map[string]string)

	err := fs.WalkDir(x.fsys, x.dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing %s: %w", p, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		raw, err := fs.ReadFile(x.fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		doc, err := x.parse(p, raw)
		if err != nil {
			return err
		}
		if doc.Slug != "" {
			if prev, ok := seen[doc.Slug]; ok {
				return fmt.Errorf("%w %s: %s and %s", ErrDuplicateSlug, doc.Slug, prev, p)
			}
			seen[doc.Slug] = p
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

func (x *FSIndex) parse(p string, raw []byte) (Document, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse frontmatter in %s: %w", p, err)
	}

	date, err := ParseDate(fm.Date)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", p, err)
	}

	slug := NormalizeSlug(fm.Slug)
	if slug == "" {
		slug = SlugFromPath(x.dir, p)
	}

	return Document{
		Title:      strings.TrimSpace(fm.Title),
		Date:       date,
		Draft:      fm.Draft,
		Slug:       slug,
		TimeToRead: ReadingTime(string(body)),
		Body:       string(body),
		SourcePath: p,
	}, nil
}

// ParseDate accepts RFC 3339 timestamps and plain dates. An empty string
// yields the zero time.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %q: use YYYY-MM-DD or RFC 3339", ErrInvalidDate, value)
}

// SlugFromPath derives the URL path of a post from its location below root.
// "posts/hello-world.md" becomes "/hello-world/" and "posts/hello/index.md"
// becomes "/hello/".
func SlugFromPath(root, p string) string {
	rel := strings.TrimPrefix(p, root)
	rel = strings.TrimPrefix(rel, "/")
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if path.Base(rel) == "index" {
		rel = path.Dir(rel)
	}
	return NormalizeSlug(rel)
}

// NormalizeSlug ensures a slug has exactly one leading and trailing slash.
// ".." segments cannot climb above the site root. Blank input stays blank.
func NormalizeSlug(slug string) string {
	slug = path.Clean("/" + strings.TrimSpace(slug))
	if slug == "/" {
		return ""
	}
	return slug + "/"
}

// Package content loads blog posts from markdown files with frontmatter.
package content

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidDate is returned when a frontmatter date matches no known layout
	ErrInvalidDate = errors.New("invalid date")

	// ErrPostExists is returned when scaffolding would overwrite a post
	ErrPostExists = errors.New("post already exists")

	// ErrDuplicateSlug is returned when two files of an index map to one slug
	ErrDuplicateSlug = errors.New("duplicate slug")
)

// Document is a single post as read from the content directory
type Document struct {
	Title      string    `json:"title" validate:"notblank"`
	Date       time.Time `json:"date"`
	Draft      bool      `json:"draft,omitempty"`
	Slug       string    `json:"slug" validate:"notblank"`
	TimeToRead int       `json:"timeToRead"`
	Body       string    `json:"-"`
	SourcePath string    `json:"sourcePath,omitempty"`
}

// Index provides the set of posts. Documents may be returned in any
// order and may include drafts.
type Index interface {
	Documents(ctx context.Context) ([]Document, error)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// MissingFields returns the json names of required fields that are blank,
// or nil when the document is well formed.
func MissingFields(doc Document) []string {
	err := validate.Struct(doc)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field())
	}
	return fields
}

// wordsPerMinute is an average adult reading speed
const wordsPerMinute = 265

// ReadingTime estimates minutes to read body, never less than one
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute/2) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

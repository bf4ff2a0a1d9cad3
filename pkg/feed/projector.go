// Package feed turns content documents into the ordered, bounded list of
// links shown on the home page.
package feed

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/maxcell/portfolio/pkg/content"
)

// DefaultLimit is the number of posts shown on the home page
const DefaultLimit = 5

// ErrMalformedDocument is matched by every MalformedDocumentError
var ErrMalformedDocument = errors.New("malformed document")

// MalformedDocumentError describes a document missing required fields
type MalformedDocumentError struct {
	Slug       string
	SourcePath string
	Missing    []string
}

func (e *MalformedDocumentError) Error() string {
	where := e.SourcePath
	if where == "" {
		where = e.Slug
	}
	if where == "" {
		where = "<unknown>"
	}
	return fmt.Sprintf("malformed document %s: missing %s", where, strings.Join(e.Missing, ", "))
}

// Is reports whether target is ErrMalformedDocument
func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// DisplayItem is one entry of the rendered feed
type DisplayItem struct {
	Label  string `json:"label"`
	Target string `json:"target"`
}

// Options controls a projection. The sort key and direction are fixed:
// newest first.
type Options struct {
	// ExcludeDrafts drops documents marked as drafts
	ExcludeDrafts bool

	// Limit bounds the number of items; zero or less means no bound
	Limit int

	// Strict fails the projection on the first malformed document
	// instead of skipping it
	Strict bool
}

// DefaultOptions returns the home page settings
func DefaultOptions() Options {
	return Options{
		ExcludeDrafts: true,
		Limit:         DefaultLimit,
	}
}

// Projection is the result of Project
type Projection struct {
	Items []DisplayItem

	// Skipped lists malformed documents dropped in lenient mode
	Skipped []*MalformedDocumentError
}

// Project filters, orders and bounds docs. The input slice is not modified
// and equal inputs always yield equal results.
func Project(docs []content.Document, opts Options) (Projection, error) {
	var result Projection

	kept := make([]content.Document, 0, len(docs))
	for _, doc := range docs {
		if opts.ExcludeDrafts && doc.Draft {
			continue
		}

		if missing := content.MissingFields(doc); len(missing) > 0 {
			merr := &MalformedDocumentError{
				Slug:       doc.Slug,
				SourcePath: doc.SourcePath,
				Missing:    missing,
			}
			if opts.Strict {
				return Projection{}, merr
			}
			result.Skipped = append(result.Skipped, merr)
			continue
		}

		kept = append(kept, doc)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Date.After(kept[j].Date)
	})

	if opts.Limit > 0 && len(kept) > opts.Limit {
		kept = kept[:opts.Limit]
	}

	result.Items = make([]DisplayItem, len(kept))
	for i, doc := range kept {
		result.Items[i] = DisplayItem{Label: doc.Title, Target: doc.Slug}
	}

	return result, nil
}

package feed

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxcell/portfolio/pkg/content"
)

func day(n int) time.Time {
	return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func post(slug string, date time.Time, draft bool) content.Document {
	return content.Document{
		Title: "Post " + slug,
		Slug:  "/" + slug + "/",
		Date:  date,
		Draft: draft,
	}
}

func labels(items []DisplayItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func TestProject(t *testing.T) {
	tests := []struct {
		name string
		docs []content.Document
		want []string
	}{
		{
			name: "empty index",
			docs: nil,
			want: []string{},
		},
		{
			name: "fewer than limit",
			docs: []content.Document{
				post("a", day(1), false),
				post("b", day(3), false),
				post("c", day(2), false),
			},
			want: []string{"Post b", "Post c", "Post a"},
		},
		{
			name: "newest is a draft",
			docs: []content.Document{
				post("old", day(1), false),
				post("newest", day(9), true),
				post("mid", day(5), false),
			},
			want: []string{"Post mid", "Post old"},
		},
		{
			name: "only drafts",
			docs: []content.Document{
				post("a", day(1), true),
				post("b", day(2), true),
			},
			want: []string{},
		},
		{
			name: "equal dates keep input order",
			docs: []content.Document{
				post("first", day(1), false),
				post("second", day(1), false),
				post("newer", day(2), false),
				post("third", day(1), false),
			},
			want: []string{"Post newer", "Post first", "Post second", "Post third"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Project(tt.docs, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.want, labels(p.Items))
			assert.Empty(t, p.Skipped)
		})
	}
}

func TestProject_TenDecreasing(t *testing.T) {
	var docs []content.Document
	for i := 0; i < 10; i++ {
		docs = append(docs, post(fmt.Sprintf("p%d", i), day(100-i), false))
	}

	p, err := Project(docs, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, p.Items, 5)
	for i, item := range p.Items {
		assert.Equal(t, docs[i].Title, item.Label)
		assert.Equal(t, docs[i].Slug, item.Target)
	}
}

func TestProject_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		n := rng.Intn(15)
		docs := make([]content.Document, n)
		nonDraft := 0
		drafts := make(map[string]bool)
		for i := range docs {
			draft := rng.Intn(3) == 0
			docs[i] = post(fmt.Sprintf("r%d-%d", run, i), day(rng.Intn(10)), draft)
			if draft {
				drafts[docs[i].Slug] = true
			} else {
				nonDraft++
			}
		}

		first, err := Project(docs, DefaultOptions())
		require.NoError(t, err)

		want := nonDraft
		if want > DefaultLimit {
			want = DefaultLimit
		}
		require.Len(t, first.Items, want)

		dates := make(map[string]time.Time, n)
		for _, d := range docs {
			dates[d.Slug] = d.Date
		}
		seen := make(map[string]bool)
		for i, item := range first.Items {
			assert.False(t, drafts[item.Target], "draft %s in feed", item.Target)
			assert.False(t, seen[item.Target], "duplicate %s", item.Target)
			seen[item.Target] = true
			if i > 0 {
				prev := dates[first.Items[i-1].Target]
				assert.False(t, dates[item.Target].After(prev), "items out of order at %d", i)
			}
		}

		second, err := Project(docs, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	docs := []content.Document{
		post("a", day(1), false),
		post("b", day(3), true),
		post("c", day(2), false),
	}
	snapshot := append([]content.Document(nil), docs...)

	_, err := Project(docs, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, snapshot, docs)
}

func TestProject_Unbounded(t *testing.T) {
	var docs []content.Document
	for i := 0; i < 12; i++ {
		docs = append(docs, post(fmt.Sprintf("p%d", i), day(i), i%4 == 0))
	}

	p, err := Project(docs, Options{ExcludeDrafts: true, Limit: 0})
	require.NoError(t, err)
	assert.Len(t, p.Items, 9)
	assert.Equal(t, "Post p11", p.Items[0].Label)
}

func TestProject_KeepDrafts(t *testing.T) {
	docs := []content.Document{post("a", day(1), true)}

	p, err := Project(docs, Options{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, p.Items, 1)
}

func TestProject_Malformed(t *testing.T) {
	docs := []content.Document{
		post("good", day(2), false),
		{Slug: "/untitled/", Date: day(3), SourcePath: "content/posts/untitled.md"},
		{Title: "No slug", Date: day(1)},
		{Slug: "/draft-untitled/", Draft: true},
	}

	t.Run("lenient skips and reports", func(t *testing.T) {
		p, err := Project(docs, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{"Post good"}, labels(p.Items))
		require.Len(t, p.Skipped, 2)
		assert.Equal(t, []string{"title"}, p.Skipped[0].Missing)
		assert.Equal(t, "content/posts/untitled.md", p.Skipped[0].SourcePath)
		assert.Equal(t, []string{"slug"}, p.Skipped[1].Missing)
	})

	t.Run("strict fails", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Strict = true

		p, err := Project(docs, opts)
		require.Error(t, err)
		assert.Empty(t, p.Items)
		assert.True(t, errors.Is(err, ErrMalformedDocument))

		var merr *MalformedDocumentError
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, "/untitled/", merr.Slug)
		assert.Contains(t, err.Error(), "content/posts/untitled.md")
	})

	t.Run("drafts are not validated", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Strict = true

		_, err := Project(docs[3:], opts)
		assert.NoError(t, err)
	})
}

func TestMalformedDocumentError_Message(t *testing.T) {
	err := &MalformedDocumentError{Missing: []string{"title", "slug"}}
	assert.Equal(t, "malformed document <unknown>: missing title, slug", err.Error())

	err = &MalformedDocumentError{Slug: "/x/", Missing: []string{"title"}}
	assert.Equal(t, "malformed document /x/: missing title", err.Error())
}

func BenchmarkProject(b *testing.B) {
	docs := make([]content.Document, 0, 1000)
	for i := 0; i < 1000; i++ {
		docs = append(docs, post(fmt.Sprintf("p%d", i), day(i%97), i%10 == 0))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Project(docs, DefaultOptions()); err != nil {
			b.Fatal(err)
		}
	}
}

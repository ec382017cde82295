package importer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soygarfield/go-editorial/pkg/document"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

type captureSink struct {
	mu       sync.Mutex
	entities []interfaces.Entity
	err      error
}

func (s *captureSink) Upsert(_ context.Context, entity interfaces.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entities = append(s.entities, entity)
	return nil
}

const exportNDJSON = `{"_type":"glossaryTerm","_id":"glossary-seo","title":"¿Qué es el SEO?","slug":{"_type":"slug","current":"seo"},"excerpt":"El SEO es la práctica de optimizar un sitio.","content":[{"_type":"block","style":"h2","children":[{"_type":"span","text":"Para qué sirve"}]}],"seoTitle":"¿Qué es el SEO? | Glosario SEO Garfield","seoDescription":"El SEO es la práctica de optimizar un sitio."}

{"_type":"author","_id":"author-pietro","name":"Pietro Fiorillo","slug":{"current":"pietro-fiorillo"},"_updatedAt":"2026-01-02T00:00:00Z"}
{"_type":"article","title":"Guía","slug":{"current":"guia"},"category":"SEO","date":"2026-01-20"}
`

func TestImportConvertsEveryCollection(t *testing.T) {
	sink := &captureSink{}
	imp, err := New(sink, nil)
	require.NoError(t, err)

	result, err := imp.Import(context.Background(), strings.NewReader(exportNDJSON), Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Empty(t, result.Failed)
	assert.Equal(t, 1, result.ByCollection[interfaces.CollectionGlossary])
	assert.Equal(t, 1, result.ByCollection[interfaces.CollectionAuthor])
	assert.Equal(t, 1, result.ByCollection[interfaces.CollectionArticle])

	term, ok := sink.entities[0].(*interfaces.GlossaryTerm)
	require.True(t, ok)
	assert.Equal(t, "glossary-seo", term.ID)
	assert.Equal(t, "seo", term.Slug)
	assert.Equal(t, "¿Qué es el SEO? | Glosario SEO Garfield", term.SEO.Title)
	require.Len(t, term.Content, 1)
	assert.True(t, term.Content[0].Is(document.KindBlock, document.StyleH2))

	article := sink.entities[2].(*interfaces.Article)
	assert.NotEmpty(t, article.ID, "missing ids are generated")
	assert.Equal(t, 2026, article.PublishedAt.Year())
}

func TestImportCollectsInvalidRecords(t *testing.T) {
	input := strings.Join([]string{
		`{"_type":"glossaryTerm","slug":{"current":"sin-titulo"}}`,
		`{"_type":"author","title":"No name","slug":{"current":"x"}}`,
		`{"_type":"article","title":"Bad slug","slug":{"current":"Bad Slug"}}`,
		`{"_type":"page","title":"Unknown","slug":{"current":"p"}}`,
		`not json`,
		`{"_type":"glossaryTerm","title":"Ok","slug":{"current":"ok"}}`,
	}, "\n")

	sink := &captureSink{}
	imp, err := New(sink, nil)
	require.NoError(t, err)

	result, err := imp.Import(context.Background(), strings.NewReader(input), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Failed, 5)
	assert.Equal(t, 1, result.Failed[0].Line)
	assert.NotEmpty(t, result.Failed[0].Issues)
	assert.Equal(t, 5, result.Failed[4].Line)
	assert.Len(t, sink.entities, 1)
}

func TestImportStrictStopsAtFirstFailure(t *testing.T) {
	input := `{"_type":"glossaryTerm","title":"Ok","slug":{"current":"ok"}}
{"_type":"glossaryTerm","slug":{"current":"broken"}}
{"_type":"glossaryTerm","title":"Later","slug":{"current":"later"}}`

	sink := &captureSink{}
	imp, err := New(sink, nil)
	require.NoError(t, err)

	result, err := imp.Import(context.Background(), strings.NewReader(input), Options{Strict: true})
	var lineErr *LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 2, lineErr.Line)
	assert.Equal(t, 1, result.Imported)
}

func TestImportDryRunAndSinkFailure(t *testing.T) {
	sink := &captureSink{}
	imp, err := New(sink, nil)
	require.NoError(t, err)

	result, err := imp.Import(context.Background(), strings.NewReader(exportNDJSON), Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Empty(t, sink.entities)

	sink.err = errors.New("disk full")
	result, err = imp.Import(context.Background(), strings.NewReader(exportNDJSON), Options{})
	require.NoError(t, err)
	assert.Zero(t, result.Imported)
	require.Len(t, result.Failed, 3)
	assert.ErrorIs(t, result.Failed[0], sink.err)
}

func TestNewRequiresSink(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrSinkRequired)
}

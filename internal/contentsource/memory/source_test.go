package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soygarfield/go-editorial/pkg/interfaces"
	"github.com/soygarfield/go-editorial/pkg/testsupport"
)

func TestFetchBySlugAndNotFound(t *testing.T) {
	source := New(testsupport.SampleArticle(), testsupport.SampleGlossaryTerm())

	entity, err := source.FetchBySlug(context.Background(), interfaces.CollectionArticle, "mi-articulo")
	require.NoError(t, err)
	assert.Equal(t, "mi-articulo", entity.EntitySlug())

	_, err = source.FetchBySlug(context.Background(), interfaces.CollectionArticle, "crawl-budget")
	assert.True(t, errors.Is(err, interfaces.ErrEntityNotFound))
}

func TestFetchAllOrdersArticlesNewestFirst(t *testing.T) {
	source := New()
	for _, article := range testsupport.SampleArticles() {
		source.Put(article)
	}

	entities, err := source.FetchAll(context.Background(), interfaces.CollectionArticle)
	require.NoError(t, err)
	require.Len(t, entities, 5)
	assert.Equal(t, "mi-articulo", entities[0].EntitySlug())
	assert.Equal(t, "agentes-ia", entities[4].EntitySlug())
}

func TestSnapshotCoversEveryCollection(t *testing.T) {
	source := New(testsupport.SampleArticle(), testsupport.SampleAuthor())

	snapshot, err := source.FetchSitemapSnapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snapshot.Articles, 1)
	assert.Len(t, snapshot.Authors, 1)
	assert.NotNil(t, snapshot.GlossaryTerms, "empty collections are present, not missing")

	source.FailSnapshots(errors.New("offline"))
	_, err = source.FetchSitemapSnapshot(context.Background())
	assert.EqualError(t, err, "offline")
}

func TestResolveAssetURL(t *testing.T) {
	source := New()
	source.PutAsset("image-abc-1x1-png", "https://cdn.example.com/abc.png")

	url, ok := source.ResolveAssetURL("image-abc-1x1-png")
	assert.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/abc.png", url)

	_, ok = source.ResolveAssetURL("image-missing")
	assert.False(t, ok)
}

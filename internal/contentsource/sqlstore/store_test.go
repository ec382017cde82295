package sqlstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/soygarfield/go-editorial/internal/contentsource/memory"
	"github.com/soygarfield/go-editorial/internal/contentsource/sqlstore"
	"github.com/soygarfield/go-editorial/pkg/interfaces"
	"github.com/soygarfield/go-editorial/pkg/testsupport"
)

func newStore(t *testing.T, opts ...sqlstore.Option) *sqlstore.Store {
	t.Helper()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)

	store := sqlstore.New(bunDB, opts...)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestStoreRoundTripsArticle(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	article := testsupport.SampleArticle()
	require.NoError(t, store.Upsert(ctx, article))

	entity, err := store.FetchBySlug(ctx, interfaces.CollectionArticle, "mi-articulo")
	require.NoError(t, err)

	got, ok := entity.(*interfaces.Article)
	require.True(t, ok)
	assert.Equal(t, article.Title, got.Title)
	assert.Equal(t, article.Author, got.Author)
	assert.True(t, article.PublishedAt.Equal(got.PublishedAt))
	assert.Equal(t, len(article.Content), len(got.Content))
}

func TestStoreUpsertReplacesExisting(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	term := testsupport.SampleGlossaryTerm()
	require.NoError(t, store.Upsert(ctx, term))

	term.Title = "Presupuesto de rastreo"
	require.NoError(t, store.Upsert(ctx, term))

	all, err := store.FetchAll(ctx, interfaces.CollectionGlossary)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Presupuesto de rastreo", all[0].(*interfaces.GlossaryTerm).Title)
}

func TestStoreNotFoundAndValidation(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_, err := store.FetchBySlug(ctx, interfaces.CollectionAuthor, "nadie")
	assert.True(t, errors.Is(err, interfaces.ErrEntityNotFound))

	err = store.Upsert(ctx, &interfaces.Author{Name: "Sin slug"})
	assert.Error(t, err)
}

func TestStoreMirrorAndSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	source := memory.New(testsupport.SampleAuthor(), testsupport.SampleGlossaryTerm())
	for _, article := range testsupport.SampleArticles() {
		source.Put(article)
	}

	count, err := store.Mirror(ctx, source)
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	articles, err := store.FetchAll(ctx, interfaces.CollectionArticle)
	require.NoError(t, err)
	require.Len(t, articles, 5)
	assert.Equal(t, "mi-articulo", articles[0].EntitySlug())
	assert.Equal(t, "agentes-ia", articles[4].EntitySlug())

	snapshot, err := store.FetchSitemapSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Articles, 5)
	assert.Len(t, snapshot.Authors, 1)
	require.Len(t, snapshot.GlossaryTerms, 1)
	assert.Equal(t, "crawl-budget", snapshot.GlossaryTerms[0].Slug)
	assert.True(t, snapshot.Authors[0].LastModified.Equal(testsupport.Date(2026, time.January, 2)))
}

func TestStoreWithCacheServesReads(t *testing.T) {
	ctx := context.Background()

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	require.NoError(t, err)

	store := newStore(t, sqlstore.WithCache(cacheService, repocache.NewDefaultKeySerializer()))
	require.NoError(t, store.Upsert(ctx, testsupport.SampleAuthor()))

	for i := 0; i < 2; i++ {
		entity, err := store.FetchBySlug(ctx, interfaces.CollectionAuthor, "pietro-fiorillo")
		require.NoError(t, err)
		assert.Equal(t, "pietro-fiorillo", entity.EntitySlug())
	}
}

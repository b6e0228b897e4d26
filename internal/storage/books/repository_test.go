package books

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bookshelf/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dune() *types.Metadata {
	return &types.Metadata{
		Title:       "Dune",
		Author:      "Frank Herbert",
		Genre:       "Fiction",
		Description: "Set on the desert planet Arrakis.",
		ImageUrl:    "http://books.google.com/books/content?id=B1hSG45JCX4C&zoom=1",
	}
}

// runRepositoryTests checks the behavior shared by every backend. newRepo must
// return a repository over an empty books table.
func runRepositoryTests(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("insert then get returns same fields", func(t *testing.T) {
		repo := newRepo(t)

		md := dune()
		md.DateAdded = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

		id, err := repo.Insert(ctx, md)
		require.NoError(t, err)
		require.NotZero(t, id)

		got, err := repo.GetById(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)

		require.Equal(t, id, got.Id)
		require.Equal(t, md.Title, got.Title)
		require.Equal(t, md.Author, got.Author)
		require.Equal(t, md.Genre, got.Genre)
		require.Equal(t, md.Description, got.Description)
		require.Equal(t, md.ImageUrl, got.ImageUrl)
		require.True(t, md.DateAdded.Equal(got.DateAdded), "date_added %v != %v", got.DateAdded, md.DateAdded)
		require.Equal(t, types.StatusToRead, got.Status)
	})

	t.Run("insert defaults date and status", func(t *testing.T) {
		repo := newRepo(t)

		before := time.Now().UTC().Add(-time.Second)

		md := dune()
		md.ImageUrl = ""

		id, err := repo.Insert(ctx, md)
		require.NoError(t, err)

		got, err := repo.GetById(ctx, id)
		require.NoError(t, err)

		require.Equal(t, types.StatusToRead, got.Status)
		require.Empty(t, got.ImageUrl)
		require.False(t, got.DateAdded.Before(before))
		require.False(t, got.DateAdded.After(time.Now().UTC().Add(time.Second)))

		require.Equal(t, types.StatusToRead, md.Status)
		require.True(t, md.DateAdded.Equal(got.DateAdded))
	})

	t.Run("ids are unique", func(t *testing.T) {
		repo := newRepo(t)

		first, err := repo.Insert(ctx, dune())
		require.NoError(t, err)
		second, err := repo.Insert(ctx, dune())
		require.NoError(t, err)

		require.NotEqual(t, first, second)
	})

	t.Run("get missing returns nil", func(t *testing.T) {
		repo := newRepo(t)

		got, err := repo.GetById(ctx, 424242)
		require.NoError(t, err)
		require.Nil(t, got)
	})

	t.Run("list is newest first", func(t *testing.T) {
		repo := newRepo(t)

		books, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Empty(t, books)

		old := dune()
		old.Title = "Old"
		old.DateAdded = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		oldId, err := repo.Insert(ctx, old)
		require.NoError(t, err)

		recent := dune()
		recent.Title = "Recent"
		recent.DateAdded = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
		recentId, err := repo.Insert(ctx, recent)
		require.NoError(t, err)

		middle := dune()
		middle.Title = "Middle"
		middle.DateAdded = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
		middleId, err := repo.Insert(ctx, middle)
		require.NoError(t, err)

		books, err = repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, books, 3)

		require.Equal(t, []int64{recentId, middleId, oldId}, []int64{books[0].Id, books[1].Id, books[2].Id})
	})

	t.Run("same timestamp falls back to insertion order", func(t *testing.T) {
		repo := newRepo(t)

		at := time.Date(2022, 2, 2, 2, 2, 2, 0, time.UTC)

		first := dune()
		first.DateAdded = at
		firstId, err := repo.Insert(ctx, first)
		require.NoError(t, err)

		second := dune()
		second.DateAdded = at
		secondId, err := repo.Insert(ctx, second)
		require.NoError(t, err)

		books, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, books, 2)
		require.Equal(t, secondId, books[0].Id)
		require.Equal(t, firstId, books[1].Id)
	})

	t.Run("update status changes only status", func(t *testing.T) {
		repo := newRepo(t)

		md := dune()
		md.DateAdded = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
		id, err := repo.Insert(ctx, md)
		require.NoError(t, err)

		before, err := repo.GetById(ctx, id)
		require.NoError(t, err)

		for _, status := range []string{types.StatusReading, types.StatusDone, "Abandoned", types.StatusToRead, "Reading again"} {
			require.NoError(t, repo.UpdateStatus(ctx, id, status))

			after, err := repo.GetById(ctx, id)
			require.NoError(t, err)

			require.Equal(t, status, after.Status)

			after.Status = before.Status
			require.Equal(t, before, after)
		}
	})

	t.Run("update missing id is a no-op", func(t *testing.T) {
		repo := newRepo(t)

		id, err := repo.Insert(ctx, dune())
		require.NoError(t, err)

		require.NoError(t, repo.UpdateStatus(ctx, id+1000, types.StatusDone))

		got, err := repo.GetById(ctx, id)
		require.NoError(t, err)
		require.Equal(t, types.StatusToRead, got.Status)
	})

	t.Run("delete removes and is repeatable", func(t *testing.T) {
		repo := newRepo(t)

		keepId, err := repo.Insert(ctx, dune())
		require.NoError(t, err)
		id, err := repo.Insert(ctx, dune())
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, id))

		got, err := repo.GetById(ctx, id)
		require.NoError(t, err)
		require.Nil(t, got)

		books, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, books, 1)
		require.Equal(t, keepId, books[0].Id)

		require.NoError(t, repo.Delete(ctx, id))
	})

	t.Run("schema creation is idempotent", func(t *testing.T) {
		repo := newRepo(t)

		id, err := repo.Insert(ctx, dune())
		require.NoError(t, err)

		require.NoError(t, repo.EnsureSchema(ctx))

		got, err := repo.GetById(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, newRepo(t).Ping(ctx))
	})
}

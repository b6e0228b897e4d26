package books

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func TestPGXRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()

	pg, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pg.Close)

	runRepositoryTests(t, func(t *testing.T) Repository {
		repo := NewPGXRepository(pg, discardLogger())
		require.NoError(t, repo.EnsureSchema(ctx))

		_, err := pg.Exec(ctx, "TRUNCATE books RESTART IDENTITY")
		require.NoError(t, err)

		return repo
	})
}

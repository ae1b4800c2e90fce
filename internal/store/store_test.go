package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kersley/attend/internal/catalog"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "registrations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSubmit_StoresAndReadsBack(t *testing.T) {
	db := testDB(t)
	repo := db.Registrations()

	answers := catalog.Answers{
		"role":      "Speaker",
		"workshops": true,
		"themes":    []string{"Generics", "Fuzzing"},
	}
	receipt, err := repo.Submit(context.Background(), "grace@example.org", answers)
	require.NoError(t, err)
	require.Equal(t, "grace@example.org", receipt.Email)
	require.NotEmpty(t, receipt.ID)
	_, err = uuid.Parse(receipt.ID)
	require.NoError(t, err, "receipt ids are uuids")

	stored, err := repo.(*registrationRepository).FindByEmail(context.Background(), "grace@example.org")
	require.NoError(t, err)
	require.Equal(t, "Speaker", stored["role"])
	require.Equal(t, true, stored["workshops"])
}

func TestSubmit_ResubmitReplacesAndKeepsID(t *testing.T) {
	db := testDB(t)
	repo := db.Registrations()
	ctx := context.Background()

	first, err := repo.Submit(ctx, "grace@example.org", catalog.Answers{"role": "Speaker"})
	require.NoError(t, err)

	second, err := repo.Submit(ctx, "grace@example.org", catalog.Answers{"role": "Volunteer"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "resubmitting keeps the original id")

	stored, err := repo.(*registrationRepository).FindByEmail(ctx, "grace@example.org")
	require.NoError(t, err)
	require.Equal(t, "Volunteer", stored["role"])

	summaries, err := db.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
}

func TestList_NewestFirst(t *testing.T) {
	db := testDB(t)
	repo := db.Registrations()
	ctx := context.Background()

	_, err := repo.Submit(ctx, "a@example.org", catalog.Answers{})
	require.NoError(t, err)
	_, err = repo.Submit(ctx, "b@example.org", catalog.Answers{})
	require.NoError(t, err)

	summaries, err := db.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	emails := []string{summaries[0].Email, summaries[1].Email}
	require.ElementsMatch(t, []string{"a@example.org", "b@example.org"}, emails)
}

func TestFindByEmail_Missing(t *testing.T) {
	db := testDB(t)
	repo := db.Registrations().(*registrationRepository)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.org")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestNewDB_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registrations.db")

	db1, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	// Reopening runs migrations again; ErrNoChange must be tolerated.
	db2, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, db2.Close())
}

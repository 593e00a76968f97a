package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/apperror"
	"libraryapi/internal/entity"
	"libraryapi/internal/testutil"
)

func insertBook(t *testing.T, db *pgxpool.Pool, title string, publisherID *int64) int64 {
	t.Helper()
	var id int64
	require.NoError(t, db.QueryRow(context.Background(),
		`INSERT INTO books (title, publisher_id) VALUES ($1, $2) RETURNING id`, title, publisherID).Scan(&id))
	return id
}

func publisherOf(t *testing.T, db *pgxpool.Pool, bookID int64) *int64 {
	t.Helper()
	var id *int64
	require.NoError(t, db.QueryRow(context.Background(),
		`SELECT publisher_id FROM books WHERE id = $1`, bookID).Scan(&id))
	return id
}

func TestPostgresRepo_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	p := &entity.Publisher{Name: "Эксмо"}
	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID)

	bookID := insertBook(t, db, "1984", &p.ID)

	got, found, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Эксмо", got.Name)
	require.Len(t, got.Books, 1)
	assert.Equal(t, bookID, got.Books[0].ID)
	assert.Equal(t, "Эксмо", got.Books[0].Publisher.Name)
}

func TestPostgresRepo_GetByID_Absent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 5*time.Second)

	_, found, err := repo.GetByID(context.Background(), -1)

	require.NoError(t, err)
	assert.False(t, found)
}

func TestPostgresRepo_Delete_DetachesBooks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	p := &entity.Publisher{Name: "Эксмо"}
	require.NoError(t, repo.Create(ctx, p))
	bookID := insertBook(t, db, "1984", &p.ID)

	require.NoError(t, repo.Delete(ctx, p.ID))

	_, found, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, publisherOf(t, db, bookID))
}

func TestPostgresRepo_AssignBooks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	kept := insertBook(t, db, "Мы", nil)
	dropped := insertBook(t, db, "Котлован", nil)

	p := &entity.Publisher{Name: "АСТ", Books: entity.BookRefs([]int64{kept, dropped})}
	require.NoError(t, repo.Create(ctx, p))
	assert.Equal(t, p.ID, *publisherOf(t, db, kept))
	assert.Equal(t, p.ID, *publisherOf(t, db, dropped))

	p.Name = "АСТ-Пресс"
	p.Books = nil
	require.NoError(t, repo.Update(ctx, p))
	got, _, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "АСТ-Пресс", got.Name)
	assert.Len(t, got.Books, 2, "nil book set leaves assignments alone")

	p.Books = entity.BookRefs([]int64{kept})
	require.NoError(t, repo.Update(ctx, p))
	assert.Equal(t, p.ID, *publisherOf(t, db, kept))
	assert.Nil(t, publisherOf(t, db, dropped))

	p.Books = entity.BookRefs([]int64{})
	require.NoError(t, repo.Update(ctx, p))
	assert.Nil(t, publisherOf(t, db, kept))
}

func TestPostgresRepo_AssignUnknownBookRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	bookID := insertBook(t, db, "Чевенгур", nil)
	p := &entity.Publisher{Name: "Азбука", Books: entity.BookRefs([]int64{bookID, 2147483000})}

	err := repo.Create(ctx, p)

	assert.ErrorIs(t, err, apperror.ErrInvalidReference)
	assert.Nil(t, publisherOf(t, db, bookID))
}

func TestPostgresRepo_Update_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 5*time.Second)

	err := repo.Update(context.Background(), &entity.Publisher{ID: -1, Name: "никто"})

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPostgresRepo_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	p := &entity.Publisher{Name: "Просвещение"}
	require.NoError(t, repo.Create(ctx, p))
	bookID := insertBook(t, db, "Букварь", &p.ID)

	publishers, err := repo.List(ctx)
	require.NoError(t, err)

	var found bool
	for _, x := range publishers {
		if x.ID == p.ID {
			found = true
			assert.Equal(t, []int64{bookID}, x.BookIDs())
		}
	}
	assert.True(t, found)
}

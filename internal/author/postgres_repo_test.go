package author

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/apperror"
	"libraryapi/internal/entity"
	"libraryapi/internal/platform/postgres"
	"libraryapi/internal/testutil"
)

func insertBook(t *testing.T, db *pgxpool.Pool, title string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(context.Background(),
		`INSERT INTO books (title, published_date) VALUES ($1, '1869-01-01') RETURNING id`, title).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestPostgresRepo_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	a := &entity.Author{Name: "Лев", Surname: "Толстой", Country: "Россия"}
	require.NoError(t, repo.Create(ctx, a))
	require.NotZero(t, a.ID)

	got, found, err := repo.GetByID(ctx, a.ID, false)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, a.Name, got.Name)
	assert.Equal(t, a.Surname, got.Surname)
	assert.Equal(t, a.Country, got.Country)
	assert.Nil(t, got.Books)
}

func TestPostgresRepo_GetByID_Absent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 5*time.Second)

	_, found, err := repo.GetByID(context.Background(), -1, true)

	require.NoError(t, err)
	assert.False(t, found)
}

func TestPostgresRepo_Update_ReplacesBooks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	b1 := insertBook(t, db, "Война и мир")
	b2 := insertBook(t, db, "Анна Каренина")

	a := &entity.Author{Name: "Лев", Surname: "Толстой", Country: "Россия"}
	require.NoError(t, repo.Create(ctx, a))

	a.Books = entity.BookRefs([]int64{b1, b2})
	require.NoError(t, repo.Update(ctx, a))

	got, found, err := repo.GetByID(ctx, a.ID, true)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got.Books, 2)
	assert.Equal(t, "Война и мир", got.Books[0].Title)
	assert.Equal(t, "Анна Каренина", got.Books[1].Title)
	assert.Equal(t, "1869-01-01", got.Books[0].PublishedDate)

	a.Books = nil
	require.NoError(t, repo.Update(ctx, a))
	require.NoError(t, repo.Update(ctx, a))

	got, _, err = repo.GetByID(ctx, a.ID, true)
	require.NoError(t, err)
	assert.Empty(t, got.Books)
}

func TestPostgresRepo_Update_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 5*time.Second)

	err := repo.Update(context.Background(), &entity.Author{ID: -1, Name: "никто"})

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPostgresRepo_UnknownBookRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	b1 := insertBook(t, db, "Воскресение")
	a := &entity.Author{Name: "Лев", Books: entity.BookRefs([]int64{b1})}
	require.NoError(t, repo.Create(ctx, a))

	a.Name = "Лев Николаевич"
	a.Books = entity.BookRefs([]int64{b1, 2147483000})
	err := repo.Update(ctx, a)
	require.Error(t, err)
	assert.True(t, postgres.IsForeignKeyViolation(err))

	got, _, err := repo.GetByID(ctx, a.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Лев", got.Name)
	assert.Equal(t, []int64{b1}, got.BookIDs())
}

func TestPostgresRepo_Delete_KeepsBooks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	b1 := insertBook(t, db, "Детство")
	a := &entity.Author{Name: "Лев", Books: entity.BookRefs([]int64{b1})}
	require.NoError(t, repo.Create(ctx, a))

	require.NoError(t, repo.Delete(ctx, a.ID))
	require.NoError(t, repo.Delete(ctx, a.ID))

	_, found, err := repo.GetByID(ctx, a.ID, false)
	require.NoError(t, err)
	assert.False(t, found)

	var books int
	require.NoError(t, db.QueryRow(ctx, `SELECT count(*) FROM books WHERE id = $1`, b1).Scan(&books))
	assert.Equal(t, 1, books)
}

func TestPostgresRepo_List_HydratesBooks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	b1 := insertBook(t, db, "Отрочество")
	a := &entity.Author{Name: "Лев", Books: entity.BookRefs([]int64{b1})}
	require.NoError(t, repo.Create(ctx, a))
	lonely := &entity.Author{Name: "Аноним"}
	require.NoError(t, repo.Create(ctx, lonely))

	authors, err := repo.List(ctx, true)
	require.NoError(t, err)

	byID := make(map[int64]entity.Author, len(authors))
	for _, x := range authors {
		byID[x.ID] = x
	}
	assert.Equal(t, []int64{b1}, byID[a.ID].BookIDs())
	assert.Empty(t, byID[lonely.ID].Books)
}

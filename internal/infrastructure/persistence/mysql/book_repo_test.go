package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/config"
)

// newTestDB 内存SQLite,每个测试独立
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", AutoMigrate: true},
	}
	db, cleanup, err := NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return db
}

func seedBooks(t *testing.T, repo book.Repository, books ...*book.Book) {
	t.Helper()
	for _, b := range books {
		require.NoError(t, repo.Create(context.Background(), b))
	}
}

func newBook(isbn int64, title, author, publisher, year, location string) *book.Book {
	return book.NewBook(book.Draft{
		ISBN: isbn, Title: title, Author: author, Publisher: publisher,
		PublicationYear: year, Location: location,
	})
}

func TestBookRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))

	b := newBook(9781234567897, "Rayuela", "CORTÁZAR", "SUDAMERICANA", "1963", "P-A1")
	require.NoError(t, repo.Create(ctx, b))
	assert.NotZero(t, b.ID)

	found, err := repo.FindByISBN(ctx, 9781234567897)
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)
	assert.Equal(t, "CORTÁZAR", found.Author)

	found.Apply(book.Draft{ISBN: 9780000000001, Title: "Rayuela", Author: book.DefaultAuthor,
		Publisher: "ALFAGUARA", PublicationYear: "1963", Location: "P-A2"})
	require.NoError(t, repo.Update(ctx, found))

	_, err = repo.FindByISBN(ctx, 9781234567897)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	updated, err := repo.FindByISBN(ctx, 9780000000001)
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.ID, "ID不可变")
	assert.Equal(t, "P-A2", updated.Location)

	require.NoError(t, repo.Delete(ctx, b.ID))
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), book.ErrBookNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBookRepository_UniqueIndexBackstop(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	seedBooks(t, repo, newBook(1, "A", "S.A", "S.E", "S.F", "P-A1"))

	err := repo.Create(ctx, newBook(1, "B", "S.A", "S.E", "S.F", "P-A2"))
	assert.ErrorIs(t, err, book.ErrISBNDuplicate)

	err = repo.Create(ctx, newBook(2, "B", "S.A", "S.E", "S.F", "P-A1"))
	assert.ErrorIs(t, err, book.ErrLocationOccupied)
}

func TestBookRepository_UnshelvedNotUnique(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewBookRepository(db)
	seedBooks(t, repo,
		newBook(1, "A", "S.A", "S.E", "S.F", book.DefaultLocation),
		newBook(2, "B", "S.A", "S.E", "S.F", book.DefaultLocation),
		newBook(3, "C", "S.A", "S.E", "S.F", "P-A1"),
	)

	// 未上架存为NULL,读出时还原
	var nulls int64
	require.NoError(t, db.Model(&BookModel{}).Where("location IS NULL").Count(&nulls).Error)
	assert.Equal(t, int64(2), nulls)

	b, err := repo.FindByISBN(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, book.DefaultLocation, b.Location)

	ok, err := repo.ExistsByLocation(ctx, book.DefaultLocation)
	require.NoError(t, err)
	assert.False(t, ok)

	// 已上架的书撤下架
	c, err := repo.FindByISBN(ctx, 3)
	require.NoError(t, err)
	c.Location = book.DefaultLocation
	require.NoError(t, repo.Update(ctx, c))

	books, err := repo.FindByKeyword(ctx, book.DefaultLocation)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, titles(books))

	ok, err = repo.ExistsByLocation(ctx, "P-A1")
	require.NoError(t, err)
	assert.False(t, ok, "位置已释放")
}

func TestBookRepository_Exists(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	seedBooks(t, repo, newBook(1, "A", "S.A", "S.E", "S.F", "P-A1"))

	ok, err := repo.ExistsByISBN(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByISBN(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.ExistsByLocation(ctx, "P-A1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByLocation(ctx, "P-A2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func titles(books []*book.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestBookRepository_FindAllSorted(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	seedBooks(t, repo,
		newBook(1, "Delta", "BORGES", "S.E", "1944", "P-A1"),
		newBook(2, "Alfa", book.DefaultAuthor, "EMECÉ", "S.F", "P-A2"),
		newBook(3, "Charlie", "ALLENDE", "PLAZA", "1982", "P-A3"),
		newBook(4, "Bravo", "BORGES", "ALFAGUARA", "1949", "P-A4"),
	)

	cases := []struct {
		sortBy book.SortBy
		want   []string
	}{
		{book.SortByTitle, []string{"Alfa", "Bravo", "Charlie", "Delta"}},
		// 缺省作者排最后,同作者按书名
		{book.SortByAuthor, []string{"Charlie", "Bravo", "Delta", "Alfa"}},
		{book.SortByPublisher, []string{"Bravo", "Alfa", "Charlie", "Delta"}},
		// 年份按文本降序,S.F排最后
		{book.SortByPublicationYear, []string{"Charlie", "Bravo", "Delta", "Alfa"}},
		{book.SortByID, []string{"Bravo", "Charlie", "Alfa", "Delta"}},
		{book.SortBy("unknown"), []string{"Alfa", "Bravo", "Charlie", "Delta"}},
	}

	for _, tc := range cases {
		t.Run(string(tc.sortBy), func(t *testing.T) {
			books, err := repo.FindAll(ctx, tc.sortBy)
			require.NoError(t, err)
			assert.Equal(t, tc.want, titles(books))
		})
	}
}

func TestBookRepository_FindByKeyword(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	seedBooks(t, repo,
		newBook(9781234567897, "El Aleph", "BORGES", "LOSADA", "1949", "P-A1"),
		newBook(9780000000002, "Ficciones", "BORGES", "SUR", "1944", "Q-B2"),
		newBook(9780000000003, "100%_Real", "S.A", "S.E", "S.F", "Z-Z9"),
	)

	cases := []struct {
		keyword string
		want    []string
	}{
		{"aleph", []string{"El Aleph"}},
		{"BORGES", []string{"El Aleph", "Ficciones"}},
		{"borges", []string{"El Aleph", "Ficciones"}},
		{"456789", []string{"El Aleph"}},
		{"q-b", []string{"Ficciones"}},
		{"1944", []string{"Ficciones"}},
		{"%", []string{"100%_Real"}},
		{"_", []string{"100%_Real"}},
		{"nada", []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.keyword, func(t *testing.T) {
			books, err := repo.FindByKeyword(ctx, tc.keyword)
			require.NoError(t, err)
			assert.Equal(t, tc.want, titles(books))
		})
	}
}

func TestBookRepository_FindRandom(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	seedBooks(t, repo,
		newBook(1, "A", "S.A", "S.E", "S.F", "P-A1"),
		newBook(2, "B", "S.A", "S.E", "S.F", "P-A2"),
		newBook(3, "C", "S.A", "S.E", "S.F", "P-A3"),
	)

	books, err := repo.FindRandom(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, books, 2)

	books, err = repo.FindRandom(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, books, 3)
}

func TestTxManager_Rollback(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewBookRepository(db)
	tx := NewTxManager(db)

	seedBooks(t, repo, newBook(1, "A", "S.A", "S.E", "S.F", "P-A1"))
	target, err := repo.FindByISBN(ctx, 1)
	require.NoError(t, err)

	boom := errors.New("cover delete failed")
	err = tx.Transaction(ctx, func(ctx context.Context) error {
		if err := repo.Delete(ctx, target.ID); err != nil {
			return err
		}
		// 事务内已看不到该记录
		_, err := repo.FindByISBN(ctx, 1)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// 回滚后记录仍在
	_, err = repo.FindByISBN(ctx, 1)
	assert.NoError(t, err)
}

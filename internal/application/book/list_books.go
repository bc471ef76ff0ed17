package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// ListBooksUseCase 按排序方式列出全部图书
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// Execute sortBy 取 title/author/publisher/publication_year/id,其他值按书名排序
func (uc *ListBooksUseCase) Execute(ctx context.Context, sortBy string) ([]*BookResponse, error) {
	books, err := uc.bookService.ListBooks(ctx, book.ParseSortBy(sortBy))
	if err != nil {
		return nil, err
	}
	return toBookResponses(books), nil
}

package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// SearchBooksUseCase 关键字搜索,"+"返回全部
type SearchBooksUseCase struct {
	bookService book.Service
}

func NewSearchBooksUseCase(bookService book.Service) *SearchBooksUseCase {
	return &SearchBooksUseCase{bookService: bookService}
}

func (uc *SearchBooksUseCase) Execute(ctx context.Context, keyword string) ([]*BookResponse, error) {
	books, err := uc.bookService.SearchBooks(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return toBookResponses(books), nil
}

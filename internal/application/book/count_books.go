package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// CountBooksResponse 图书总数
type CountBooksResponse struct {
	Count int64 `json:"count"`
}

type CountBooksUseCase struct {
	bookService book.Service
}

func NewCountBooksUseCase(bookService book.Service) *CountBooksUseCase {
	return &CountBooksUseCase{bookService: bookService}
}

func (uc *CountBooksUseCase) Execute(ctx context.Context) (*CountBooksResponse, error) {
	n, err := uc.bookService.CountBooks(ctx)
	if err != nil {
		return nil, err
	}
	return &CountBooksResponse{Count: n}, nil
}

package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// RandomBooksUseCase 随机推荐,最多返回count本
type RandomBooksUseCase struct {
	bookService book.Service
}

func NewRandomBooksUseCase(bookService book.Service) *RandomBooksUseCase {
	return &RandomBooksUseCase{bookService: bookService}
}

// Execute count为0返回空列表,负数返回参数错误
func (uc *RandomBooksUseCase) Execute(ctx context.Context, count int) ([]*BookResponse, error) {
	books, err := uc.bookService.RandomBooks(ctx, count)
	if err != nil {
		return nil, err
	}
	return toBookResponses(books), nil
}

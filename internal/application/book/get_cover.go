package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// GetCoverUseCase 读取封面文件
type GetCoverUseCase struct {
	coverStore book.CoverStore
}

func NewGetCoverUseCase(coverStore book.CoverStore) *GetCoverUseCase {
	return &GetCoverUseCase{coverStore: coverStore}
}

func (uc *GetCoverUseCase) Execute(ctx context.Context, filename string) (*book.Cover, error) {
	return uc.coverStore.Load(ctx, filename)
}

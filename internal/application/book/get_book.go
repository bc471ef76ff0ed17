package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/metrics"
)

// GetBookUseCase 按ISBN查询图书(Cache-Aside)
// 1. 先查缓存,命中直接返回
// 2. 未命中查数据库并回填
// 3. 缓存读写失败按未命中处理
type GetBookUseCase struct {
	bookService book.Service
	cache       BookCache
	log         *zap.Logger
}

// NewGetBookUseCase cache可以为nil(不使用缓存)
func NewGetBookUseCase(bookService book.Service, cache BookCache, log *zap.Logger) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService, cache: cache, log: log}
}

func (uc *GetBookUseCase) Execute(ctx context.Context, isbn int64) (*BookResponse, error) {
	if isbn <= 0 {
		return nil, book.ErrInvalidISBN
	}

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, isbn)
		switch {
		case err != nil:
			metrics.IncCounterVec(metrics.BookCacheRequestsTotal, "error")
			uc.log.Warn("读取图书缓存失败", zap.Int64("isbn", isbn), zap.Error(err))
		case cached != nil:
			metrics.IncCounterVec(metrics.BookCacheRequestsTotal, "hit")
			return toBookResponse(cached), nil
		default:
			metrics.IncCounterVec(metrics.BookCacheRequestsTotal, "miss")
		}
	}

	b, err := uc.bookService.GetBookByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, b); err != nil {
			uc.log.Warn("写入图书缓存失败", zap.Int64("isbn", isbn), zap.Error(err))
		}
	}
	return toBookResponse(b), nil
}

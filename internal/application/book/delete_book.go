package book

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// MessageBookDeleted 删除成功提示
const MessageBookDeleted = "图书删除成功"

// DeleteBookUseCase 删除图书用例
// 封面在事务内先移到暂存名下,移动失败时记录删除回滚;
// 事务提交后才真正删除暂存文件,提交失败时放回原处
type DeleteBookUseCase struct {
	bookService book.Service
	coverStore  book.CoverStore
	txManager   TxManager
	cache       BookCache
	events      EventPublisher
	log         *zap.Logger
}

// NewDeleteBookUseCase 创建删除图书用例
func NewDeleteBookUseCase(bookService book.Service, coverStore book.CoverStore, txManager TxManager, cache BookCache, events EventPublisher, log *zap.Logger) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		coverStore:  coverStore,
		txManager:   txManager,
		cache:       cache,
		events:      events,
		log:         log,
	}
}

// DeleteBookRequest 删除图书请求
type DeleteBookRequest struct {
	ISBN       int64
	OperatorID uint
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, req DeleteBookRequest) (resp *MutationResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteBook")
	start := time.Now()
	defer func() {
		tracing.EndSpan(span, err)
		metrics.ObserveCatalogMutation("delete", err, time.Since(start))
	}()

	var (
		removed  *book.Book
		detached book.DetachedCover
	)
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		b, err := uc.bookService.RemoveBook(ctx, req.ISBN)
		if err != nil {
			return err
		}
		d, err := uc.coverStore.Detach(ctx, b.ISBN)
		if err != nil {
			return err
		}
		removed, detached = b, d
		return nil
	})
	if err != nil {
		if detached != nil {
			if restoreErr := detached.Restore(); restoreErr != nil {
				uc.log.Error("删除回滚但封面恢复失败",
					zap.Int64("isbn", req.ISBN),
					zap.Error(restoreErr),
				)
			}
		}
		return nil, err
	}

	if err := detached.Purge(); err != nil {
		uc.log.Warn("封面暂存文件清理失败", zap.Int64("isbn", removed.ISBN), zap.Error(err))
	}

	invalidate(ctx, uc.cache, uc.log, removed.ISBN)

	uc.log.Info("删除图书",
		zap.Int64("isbn", removed.ISBN),
		zap.Uint("operator_id", req.OperatorID),
	)

	view := toBookResponse(removed)
	publish(ctx, uc.events, uc.log, RoutingKeyBookDeleted, CatalogEvent{
		ISBN:       removed.ISBN,
		Book:       view,
		OperatorID: req.OperatorID,
	})

	return &MutationResponse{Message: MessageBookDeleted, Book: view}, nil
}

// invalidate 写操作后删除缓存,失败只告警(缓存有TTL兜底)
func invalidate(ctx context.Context, cache BookCache, log *zap.Logger, isbns ...int64) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, isbns...); err != nil {
		log.Warn("删除图书缓存失败", zap.Int64s("isbns", isbns), zap.Error(err))
	}
}

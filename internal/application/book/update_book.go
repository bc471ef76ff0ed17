package book

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// MessageBookUpdated 修改成功提示
const MessageBookUpdated = "图书更新成功"

// UpdateBookUseCase 修改图书用例
// 封面以ISBN命名,ISBN变化时:
// - 上传了新封面:写入新文件名,删除旧文件
// - 没有上传:旧封面改名为新ISBN
type UpdateBookUseCase struct {
	bookService book.Service
	coverStore  book.CoverStore
	txManager   TxManager
	cache       BookCache
	events      EventPublisher
	log         *zap.Logger
}

// NewUpdateBookUseCase 创建修改图书用例
func NewUpdateBookUseCase(bookService book.Service, coverStore book.CoverStore, txManager TxManager, cache BookCache, events EventPublisher, log *zap.Logger) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		coverStore:  coverStore,
		txManager:   txManager,
		cache:       cache,
		events:      events,
		log:         log,
	}
}

// UpdateBookRequest 修改图书请求
type UpdateBookRequest struct {
	ISBN int64 // 路径中的ISBN,定位要修改的图书
	BookDraft
	Cover      *book.CoverUpload
	OperatorID uint
}

// Execute 执行修改
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (resp *MutationResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "UpdateBook")
	start := time.Now()
	defer func() {
		tracing.EndSpan(span, err)
		metrics.ObserveCatalogMutation("update", err, time.Since(start))
	}()

	var (
		updated      *book.Book
		previousISBN int64
	)
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		b, prev, err := uc.bookService.ReviseBook(ctx, req.ISBN, req.toDomain())
		if err != nil {
			return err
		}
		if err := uc.coverStore.Check(req.Cover, b.ISBN); err != nil {
			return err
		}
		updated, previousISBN = b, prev
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, uc.cache, uc.log, previousISBN, updated.ISBN)

	if err := uc.syncCover(ctx, req.Cover, previousISBN, updated.ISBN); err != nil {
		uc.log.Error("图书已更新但封面同步失败",
			zap.Int64("isbn", updated.ISBN),
			zap.Int64("previous_isbn", previousISBN),
			zap.Uint("operator_id", req.OperatorID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.log.Info("修改图书",
		zap.Int64("isbn", updated.ISBN),
		zap.Int64("previous_isbn", previousISBN),
		zap.Bool("with_cover", req.Cover != nil),
		zap.Uint("operator_id", req.OperatorID),
	)

	view := toBookResponse(updated)
	event := CatalogEvent{
		ISBN:       updated.ISBN,
		Book:       view,
		WithCover:  req.Cover != nil,
		OperatorID: req.OperatorID,
	}
	if previousISBN != updated.ISBN {
		event.PreviousISBN = previousISBN
	}
	publish(ctx, uc.events, uc.log, RoutingKeyBookUpdated, event)

	return &MutationResponse{Message: MessageBookUpdated, Book: view}, nil
}

func (uc *UpdateBookUseCase) syncCover(ctx context.Context, upload *book.CoverUpload, previousISBN, isbn int64) error {
	if upload == nil {
		return uc.coverStore.Rename(ctx, previousISBN, isbn)
	}
	if err := uc.coverStore.Save(ctx, upload, isbn); err != nil {
		return err
	}
	if previousISBN != isbn {
		return uc.coverStore.Delete(ctx, previousISBN)
	}
	return nil
}

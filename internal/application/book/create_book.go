package book

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// MessageBookSaved 新增成功提示
const MessageBookSaved = "图书保存成功"

// CreateBookUseCase 新增图书用例
// 流程: 规范化 → 字段校验 → ISBN/位置唯一性 → 封面文件名和大小校验 → 写库(事务) → 保存封面
type CreateBookUseCase struct {
	bookService book.Service
	coverStore  book.CoverStore
	txManager   TxManager
	events      EventPublisher
	log         *zap.Logger
}

// NewCreateBookUseCase 创建新增图书用例
func NewCreateBookUseCase(bookService book.Service, coverStore book.CoverStore, txManager TxManager, events EventPublisher, log *zap.Logger) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		coverStore:  coverStore,
		txManager:   txManager,
		events:      events,
		log:         log,
	}
}

// CreateBookRequest 新增图书请求
type CreateBookRequest struct {
	BookDraft
	Cover      *book.CoverUpload // 可选
	OperatorID uint              // 当前登录用户,由认证中间件注入
}

// Execute 执行新增
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (resp *MutationResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateBook")
	start := time.Now()
	defer func() {
		tracing.EndSpan(span, err)
		metrics.ObserveCatalogMutation("create", err, time.Since(start))
	}()

	// 1. 记录写入和封面校验在同一事务内,封面不合法或超限时记录回滚
	var created *book.Book
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		b, err := uc.bookService.AddBook(ctx, req.toDomain())
		if err != nil {
			return err
		}
		if err := uc.coverStore.Check(req.Cover, b.ISBN); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 2. 记录已提交,再写封面
	if err := uc.coverStore.Save(ctx, req.Cover, created.ISBN); err != nil {
		uc.log.Error("图书已保存但封面写入失败",
			zap.Int64("isbn", created.ISBN),
			zap.Uint("operator_id", req.OperatorID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.log.Info("新增图书",
		zap.Int64("isbn", created.ISBN),
		zap.String("location", created.Location),
		zap.Bool("with_cover", req.Cover != nil),
		zap.Uint("operator_id", req.OperatorID),
	)

	view := toBookResponse(created)
	publish(ctx, uc.events, uc.log, RoutingKeyBookCreated, CatalogEvent{
		ISBN:       created.ISBN,
		Book:       view,
		WithCover:  req.Cover != nil,
		OperatorID: req.OperatorID,
	})

	return &MutationResponse{Message: MessageBookSaved, Book: view}, nil
}

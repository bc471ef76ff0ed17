package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

const tracerName = "library/application/book"

// TxManager 事务边界,fn内的仓储操作共享同一个事务
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// BookCache 按ISBN的图书详情缓存
// Get未命中返回 (nil, nil);缓存故障只记日志,不影响主流程
type BookCache interface {
	Get(ctx context.Context, isbn int64) (*book.Book, error)
	Set(ctx context.Context, b *book.Book) error
	Invalidate(ctx context.Context, isbns ...int64) error
}

// EventPublisher 图书变更事件发布
// 事件在事务提交、封面处理完成之后发出,发布失败不影响接口结果
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
}

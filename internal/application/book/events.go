package book

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/pkg/metrics"
)

// 图书变更事件路由键,订阅方可以用 "book.*" 一次订阅全部
const (
	RoutingKeyBookCreated = "book.created"
	RoutingKeyBookUpdated = "book.updated"
	RoutingKeyBookDeleted = "book.deleted"
)

// CatalogEvent 图书变更事件
type CatalogEvent struct {
	Type         string        `json:"type"`
	ISBN         int64         `json:"isbn"`
	PreviousISBN int64         `json:"previous_isbn,omitempty"` // 仅修改且ISBN变化时
	Book         *BookResponse `json:"book"`
	WithCover    bool          `json:"with_cover"`
	OperatorID   uint          `json:"operator_id"`
	OccurredAt   time.Time     `json:"occurred_at"`
}

func publish(ctx context.Context, events EventPublisher, log *zap.Logger, routingKey string, event CatalogEvent) {
	if events == nil {
		return
	}
	event.Type = routingKey
	event.OccurredAt = time.Now().UTC()
	err := events.Publish(ctx, routingKey, event)
	metrics.IncCounterVec(metrics.CatalogEventsPublishedTotal, routingKey, metrics.Result(err))
	if err != nil {
		log.Warn("发布图书变更事件失败",
			zap.String("routing_key", routingKey),
			zap.Int64("isbn", event.ISBN),
			zap.Error(err),
		)
	}
}

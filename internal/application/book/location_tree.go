package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// ShelfResponse 书架 → 区段 → 图书
type ShelfResponse struct {
	Shelf    string             `json:"shelf"`
	Sections []*SectionResponse `json:"sections"`
}

type SectionResponse struct {
	Section string                    `json:"section"`
	Books   []*PositionedBookResponse `json:"books"`
}

type PositionedBookResponse struct {
	BookResponse
	Position int `json:"position"`
}

// LocationTreeUseCase 位置树
// 位置无法解析的图书不进入树,只记warn日志和计数
type LocationTreeUseCase struct {
	bookService book.Service
	log         *zap.Logger
}

func NewLocationTreeUseCase(bookService book.Service, log *zap.Logger) *LocationTreeUseCase {
	return &LocationTreeUseCase{bookService: bookService, log: log}
}

func (uc *LocationTreeUseCase) Execute(ctx context.Context) (resp []*ShelfResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "LocationTree")
	defer func() { tracing.EndSpan(span, err) }()

	tree, skipped, err := uc.bookService.LocationTree(ctx)
	if err != nil {
		return nil, err
	}

	for _, s := range skipped {
		metrics.IncCounter(metrics.LocationEntriesSkippedTotal)
		uc.log.Warn("跳过无法解析的书架位置",
			zap.Int64("isbn", s.ISBN),
			zap.String("location", s.Location),
			zap.String("reason", s.Reason),
		)
	}

	resp = make([]*ShelfResponse, 0, len(tree))
	for _, shelf := range tree {
		sr := &ShelfResponse{Shelf: shelf.Shelf, Sections: make([]*SectionResponse, 0, len(shelf.Sections))}
		for _, section := range shelf.Sections {
			sec := &SectionResponse{Section: section.Section, Books: make([]*PositionedBookResponse, 0, len(section.Books))}
			for _, pb := range section.Books {
				sec.Books = append(sec.Books, &PositionedBookResponse{
					BookResponse: *toBookResponse(pb.Book),
					Position:     pb.Position,
				})
			}
			sr.Sections = append(sr.Sections, sec)
		}
		resp = append(resp, sr)
	}
	return resp, nil
}

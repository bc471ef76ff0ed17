package book

import (
	"github.com/xiebiao/library/internal/domain/book"
)

// BookResponse 图书对外结构
type BookResponse struct {
	ID              uint   `json:"id"`
	ISBN            int64  `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	PublicationYear string `json:"publication_year"`
	Location        string `json:"location"`
}

// MutationResponse 新增/修改/删除的结果
type MutationResponse struct {
	Message string        `json:"message"`
	Book    *BookResponse `json:"book,omitempty"`
}

// BookDraft 新增/修改的公共输入
type BookDraft struct {
	ISBN            int64
	Title           string
	Author          string
	Publisher       string
	PublicationYear string
	Location        string
}

func (d BookDraft) toDomain() book.Draft {
	return book.Draft{
		ISBN:            d.ISBN,
		Title:           d.Title,
		Author:          d.Author,
		Publisher:       d.Publisher,
		PublicationYear: d.PublicationYear,
		Location:        d.Location,
	}
}

func toBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		Location:        b.Location,
	}
}

func toBookResponses(books []*book.Book) []*BookResponse {
	out := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	return out
}

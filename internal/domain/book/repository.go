package book

import (
	"context"
)

// SortBy 列表排序方式
type SortBy string

const (
	SortByTitle           SortBy = "title"
	SortByAuthor          SortBy = "author"
	SortByPublisher       SortBy = "publisher"
	SortByPublicationYear SortBy = "publication_year"
	SortByID              SortBy = "id"
)

// ParseSortBy 解析排序参数,未知值按书名排序
func ParseSortBy(s string) SortBy {
	switch SortBy(s) {
	case SortByAuthor, SortByPublisher, SortByPublicationYear, SortByID:
		return SortBy(s)
	default:
		return SortByTitle
	}
}

// MatchAllKeyword 关键字"+"表示返回全部图书
const MatchAllKeyword = "+"

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 所有方法都接收ctx,实现方需要参与ctx中携带的事务
// 3. 唯一性由数据库唯一索引兜底,违反时返回ErrISBNDuplicate/ErrLocationOccupied
type Repository interface {
	// Create 创建图书,成功后回填ID
	Create(ctx context.Context, book *Book) error

	// Update 按ID更新全部字段
	Update(ctx context.Context, book *Book) error

	// Delete 按ID物理删除
	Delete(ctx context.Context, id uint) error

	// FindByISBN 不存在时返回ErrBookNotFound
	FindByISBN(ctx context.Context, isbn int64) (*Book, error)

	// FindAll 按排序方式返回全部图书
	//   - author/publisher: 缺省值排最后,其余升序,再按书名升序
	//   - publication_year: 缺省值排最后,其余按文本降序,再按书名升序
	//   - id: 降序
	//   - title: 升序
	FindAll(ctx context.Context, sortBy SortBy) ([]*Book, error)

	// FindByKeyword ISBN(文本)、书名、作者、出版社、年份、位置的不区分大小写子串匹配
	FindByKeyword(ctx context.Context, keyword string) ([]*Book, error)

	// FindRandom 随机返回最多n本
	FindRandom(ctx context.Context, n int) ([]*Book, error)

	ExistsByISBN(ctx context.Context, isbn int64) (bool, error)
	ExistsByLocation(ctx context.Context, location string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

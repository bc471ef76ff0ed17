package book

import (
	"context"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 封装 规范化 → 字段校验 → 唯一性校验 → 持久化 这一段业务规则
// 2. 封面文件和事务由应用层编排,领域服务只关心图书记录本身
type Service interface {
	// AddBook 新增图书
	// 业务规则:
	// - 作者/出版社/年份/位置先规范化(空白取缺省值,其余去空白转大写)
	// - ISBN和位置都必须未被占用,任一冲突都不会写入
	AddBook(ctx context.Context, draft Draft) (*Book, error)

	// ReviseBook 按ISBN修改图书,返回修改后的图书和修改前的ISBN
	// 业务规则:只有值发生变化的ISBN/位置才做唯一性校验
	ReviseBook(ctx context.Context, isbn int64, draft Draft) (*Book, int64, error)

	// RemoveBook 按ISBN删除图书记录,返回被删除的图书
	RemoveBook(ctx context.Context, isbn int64) (*Book, error)

	GetBookByISBN(ctx context.Context, isbn int64) (*Book, error)
	ListBooks(ctx context.Context, sortBy SortBy) ([]*Book, error)

	// SearchBooks 关键字"+"返回全部图书
	SearchBooks(ctx context.Context, keyword string) ([]*Book, error)

	CountBooks(ctx context.Context) (int64, error)

	// RandomBooks 随机返回最多n本,n为0时返回空列表
	RandomBooks(ctx context.Context, n int) ([]*Book, error)

	// LocationTree 按 书架 → 区段 → 序号 组织全部图书
	LocationTree(ctx context.Context) ([]ShelfGroup, []SkippedLocation, error)
}

type service struct {
	repo      Repository
	validator Validator
}

// NewService 创建图书领域服务
func NewService(repo Repository, validator Validator) Service {
	return &service{repo: repo, validator: validator}
}

// AddBook 新增图书
func (s *service) AddBook(ctx context.Context, draft Draft) (*Book, error) {
	// 1. 规范化
	draft = draft.Normalize()

	// 2. 字段校验
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	// 3. 唯一性校验(两项都必须通过)
	if err := s.validator.EnsureISBNIsUnique(ctx, draft.ISBN); err != nil {
		return nil, err
	}
	if err := s.validator.EnsureLocationIsAvailable(ctx, draft.Location); err != nil {
		return nil, err
	}

	// 4. 持久化
	book := NewBook(draft)
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// ReviseBook 修改图书
func (s *service) ReviseBook(ctx context.Context, isbn int64, draft Draft) (*Book, int64, error) {
	// 1. 查询现有记录
	book, err := s.repo.FindByISBN(ctx, isbn)
	if err != nil {
		return nil, 0, err
	}

	// 2. 规范化 + 字段校验
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, 0, err
	}

	// 3. 只校验变化了的字段,避免和自己冲突
	if draft.ISBN != book.ISBN {
		if err := s.validator.EnsureISBNIsUnique(ctx, draft.ISBN); err != nil {
			return nil, 0, err
		}
	}
	if draft.Location != book.Location {
		if err := s.validator.EnsureLocationIsAvailable(ctx, draft.Location); err != nil {
			return nil, 0, err
		}
	}

	// 4. 应用修改并持久化
	previousISBN := book.ISBN
	book.Apply(draft)
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, 0, err
	}
	return book, previousISBN, nil
}

// RemoveBook 删除图书记录
func (s *service) RemoveBook(ctx context.Context, isbn int64) (*Book, error) {
	book, err := s.repo.FindByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, book.ID); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *service) GetBookByISBN(ctx context.Context, isbn int64) (*Book, error) {
	return s.repo.FindByISBN(ctx, isbn)
}

func (s *service) ListBooks(ctx context.Context, sortBy SortBy) ([]*Book, error) {
	return s.repo.FindAll(ctx, sortBy)
}

// SearchBooks 关键字搜索
func (s *service) SearchBooks(ctx context.Context, keyword string) ([]*Book, error) {
	if keyword == MatchAllKeyword {
		return s.repo.FindAll(ctx, SortByTitle)
	}
	return s.repo.FindByKeyword(ctx, keyword)
}

func (s *service) CountBooks(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *service) RandomBooks(ctx context.Context, n int) ([]*Book, error) {
	if n < 0 {
		return nil, ErrInvalidCount
	}
	if n == 0 {
		return []*Book{}, nil
	}
	return s.repo.FindRandom(ctx, n)
}

func (s *service) LocationTree(ctx context.Context) ([]ShelfGroup, []SkippedLocation, error) {
	books, err := s.repo.FindAll(ctx, SortByTitle)
	if err != nil {
		return nil, nil, err
	}
	tree, skipped := OrganizeLocations(books)
	return tree, skipped, nil
}

package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// bookRepository 图书仓储实现
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 唯一索引冲突转换为业务错误(ErrISBNDuplicate/ErrLocationOccupied)
// 4. 未上架("---")存为NULL,唯一索引不约束NULL,读出时还原
// 5. 所有查询都通过dbFromContext参与ctx中的事务
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return translateWriteError(err, "创建图书失败")
	}

	// 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Update 按ID更新全部字段(调用方已确认记录存在)
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	// 显式Select,空字符串等零值也会被写入
	err := dbFromContext(ctx, r.db).
		Model(&BookModel{ID: b.ID}).
		Select("isbn", "title", "author", "publisher", "publication_year", "location", "updated_at").
		Updates(model).Error
	if err != nil {
		return translateWriteError(err, "更新图书失败")
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 物理删除
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := dbFromContext(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.ErrDatabaseError.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// FindByISBN 根据ISBN查找图书
func (r *bookRepository) FindByISBN(ctx context.Context, isbn int64) (*book.Book, error) {
	var model BookModel
	err := dbFromContext(ctx, r.db).Where("isbn = ?", isbn).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithCause(err)
	}
	return toBookEntity(&model), nil
}

// FindAll 按排序方式查询全部图书
func (r *bookRepository) FindAll(ctx context.Context, sortBy book.SortBy) ([]*book.Book, error) {
	var models []BookModel
	err := dbFromContext(ctx, r.db).Clauses(orderClause(sortBy)).Find(&models).Error
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithCause(err)
	}
	return toBookEntities(models), nil
}

// orderClause 排序子句
// 缺省值(S.A/S.E/S.F)通过 CASE WHEN 排到最后
func orderClause(sortBy book.SortBy) clause.OrderBy {
	sentinelLast := func(column, sentinel, direction string) clause.OrderBy {
		return clause.OrderBy{
			Expression: clause.Expr{
				SQL:                "CASE WHEN " + column + " = ? THEN 1 ELSE 0 END, " + column + " " + direction + ", title ASC",
				Vars:               []interface{}{sentinel},
				WithoutParentheses: true,
			},
		}
	}

	switch sortBy {
	case book.SortByAuthor:
		return sentinelLast("author", book.DefaultAuthor, "ASC")
	case book.SortByPublisher:
		return sentinelLast("publisher", book.DefaultPublisher, "ASC")
	case book.SortByPublicationYear:
		// 年份是文本,按字典序降序(保持原有行为)
		return sentinelLast("publication_year", book.DefaultPublicationYear, "DESC")
	case book.SortByID:
		return clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "id"}, Desc: true}}}
	default:
		return clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "title"}}}}
	}
}

// FindByKeyword 不区分大小写的子串匹配
// ISBN转为文本后参与匹配,CAST AS CHAR在MySQL和SQLite中都可用
func (r *bookRepository) FindByKeyword(ctx context.Context, keyword string) ([]*book.Book, error) {
	pattern := containsPattern(keyword)

	var models []BookModel
	err := dbFromContext(ctx, r.db).
		Where(`CAST(isbn AS CHAR) LIKE @p ESCAPE '!'
			OR LOWER(title) LIKE @p ESCAPE '!'
			OR LOWER(author) LIKE @p ESCAPE '!'
			OR LOWER(publisher) LIKE @p ESCAPE '!'
			OR LOWER(publication_year) LIKE @p ESCAPE '!'
			OR LOWER(COALESCE(location, @unshelved)) LIKE @p ESCAPE '!'`,
			map[string]interface{}{"p": pattern, "unshelved": book.DefaultLocation}).
		Order("title ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithCause(err)
	}
	return toBookEntities(models), nil
}

// FindRandom 随机返回最多n本
func (r *bookRepository) FindRandom(ctx context.Context, n int) ([]*book.Book, error) {
	db := dbFromContext(ctx, r.db)

	random := "RAND()"
	if db.Dialector.Name() == "sqlite" {
		random = "RANDOM()"
	}

	var models []BookModel
	if err := db.Order(random).Limit(n).Find(&models).Error; err != nil {
		return nil, apperrors.ErrDatabaseError.WithCause(err)
	}
	return toBookEntities(models), nil
}

// ExistsByISBN ISBN是否已被使用
func (r *bookRepository) ExistsByISBN(ctx context.Context, isbn int64) (bool, error) {
	return r.exists(ctx, "isbn = ?", isbn)
}

// ExistsByLocation 位置是否已被占用,未上架永远不算占用
func (r *bookRepository) ExistsByLocation(ctx context.Context, location string) (bool, error) {
	if location == book.DefaultLocation {
		return false, nil
	}
	return r.exists(ctx, "location = ?", location)
}

func (r *bookRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&BookModel{}).Where(query, arg).Limit(1).Count(&count).Error
	if err != nil {
		return false, apperrors.ErrDatabaseError.WithCause(err)
	}
	return count > 0, nil
}

// Count 图书总数
func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&BookModel{}).Count(&count).Error; err != nil {
		return 0, apperrors.ErrDatabaseError.WithCause(err)
	}
	return count, nil
}

// =========================================
// 辅助函数
// =========================================

// translateWriteError 唯一索引冲突 → 业务错误
func translateWriteError(err error, message string) error {
	switch {
	case duplicateOn(err, "location"):
		return book.ErrLocationOccupied
	case duplicateOn(err, "isbn"):
		return book.ErrISBNDuplicate
	case isDuplicateError(err):
		return apperrors.New(apperrors.ErrCodeDuplicateEntry, "重复记录")
	default:
		return apperrors.Wrap(err, message)
	}
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		Location:        storedLocation(b.Location),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// storedLocation 未上架写NULL
func storedLocation(location string) *string {
	if location == "" || location == book.DefaultLocation {
		return nil
	}
	return &location
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(m *BookModel) *book.Book {
	b := &book.Book{
		ID:              m.ID,
		ISBN:            m.ISBN,
		Title:           m.Title,
		Author:          m.Author,
		Publisher:       m.Publisher,
		PublicationYear: m.PublicationYear,
		Location:        book.DefaultLocation,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Location != nil {
		b.Location = *m.Location
	}
	return b
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, 0, len(models))
	for i := range models {
		books = append(books, toBookEntity(&models[i]))
	}
	return books
}

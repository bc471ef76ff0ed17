package book

import (
	"time"
	"unicode/utf8"
)

// 缺省值(哨兵值)
// 作者、出版社、出版年份、书架位置未填写时写入以下值,排序时排在最后
const (
	DefaultAuthor          = "S.A" // Sin Autor
	DefaultPublisher       = "S.E" // Sin Editorial
	DefaultPublicationYear = "S.F" // Sin Fecha
	DefaultLocation        = "---" // 未上架
)

// 字段长度上限(按字符计,与数据库列宽一致)
const (
	MaxTitleLength           = 120
	MaxAuthorLength          = 100
	MaxPublisherLength       = 50
	MaxPublicationYearLength = 6
	MaxLocationLength        = 6
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. ID由存储层分配,创建后不可变
// 2. ISBN是业务唯一标识,允许修改(修改时重新校验唯一性)
// 3. Location是书架位置编码,格式 "<书架>-<区段><序号>",如 "P-A12";未上架为"---",可多本共用
type Book struct {
	ID              uint
	ISBN            int64
	Title           string
	Author          string
	Publisher       string
	PublicationYear string
	Location        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Draft 图书新增/修改的输入(未规范化)
// 空字符串表示未填写
type Draft struct {
	ISBN            int64
	Title           string
	Author          string
	Publisher       string
	PublicationYear string
	Location        string
}

// NewBook 由已规范化的Draft创建新图书(工厂方法)
func NewBook(d Draft) *Book {
	now := time.Now()
	return &Book{
		ISBN:            d.ISBN,
		Title:           d.Title,
		Author:          d.Author,
		Publisher:       d.Publisher,
		PublicationYear: d.PublicationYear,
		Location:        d.Location,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Apply 用已规范化的Draft覆盖全部可编辑字段,ID保持不变
func (b *Book) Apply(d Draft) {
	b.ISBN = d.ISBN
	b.Title = d.Title
	b.Author = d.Author
	b.Publisher = d.Publisher
	b.PublicationYear = d.PublicationYear
	b.Location = d.Location
	b.UpdatedAt = time.Now()
}

// CoverFile 封面文件名,封面以ISBN为键保存为jpg
func (b *Book) CoverFile() string {
	return CoverFileFor(b.ISBN)
}

// Validate 字段校验(在规范化之后调用)
// 业务规则:
// - ISBN必须为正整数
// - 书名不能为空白
// - 各字段不超过列宽
func (d Draft) Validate() error {
	if d.ISBN <= 0 {
		return ErrInvalidISBN
	}
	if isBlank(d.Title) {
		return ErrTitleRequired
	}

	limits := []struct {
		value string
		max   int
		err   error
	}{
		{d.Title, MaxTitleLength, ErrTitleTooLong},
		{d.Author, MaxAuthorLength, ErrAuthorTooLong},
		{d.Publisher, MaxPublisherLength, ErrPublisherTooLong},
		{d.PublicationYear, MaxPublicationYearLength, ErrPublicationYearTooLong},
		{d.Location, MaxLocationLength, ErrLocationTooLong},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return l.err
		}
	}
	return nil
}

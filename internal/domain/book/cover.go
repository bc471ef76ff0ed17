package book

import (
	"context"
	"io"
	"strconv"
	"strings"
)

// CoverExtension 唯一允许的封面扩展名
const CoverExtension = "jpg"

// CoverUpload 上传的封面文件
type CoverUpload struct {
	Filename string    // 客户端提供的原始文件名,仅用于取扩展名
	Content  io.Reader // 文件内容
	Size     int64
}

// Cover 读取到的封面
type Cover struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CoverStore 封面存储接口
// 封面以ISBN命名("<isbn>.jpg"),和图书之间没有额外的关联表
type CoverStore interface {
	// Save 保存封面,upload为nil时什么也不做;同名文件整体替换
	Save(ctx context.Context, upload *CoverUpload, isbn int64) error

	// Check 写库前校验上传的封面(文件名和大小),upload为nil时通过
	Check(upload *CoverUpload, isbn int64) error

	// Delete 删除"<isbn>.jpg",文件不存在不算错误
	Delete(ctx context.Context, isbn int64) error

	// Detach 把"<isbn>.jpg"移到暂存名下,由调用方在事务结束后Purge或Restore
	Detach(ctx context.Context, isbn int64) (DetachedCover, error)

	// Rename ISBN变更时迁移封面,源文件不存在时什么也不做
	Rename(ctx context.Context, fromISBN, toISBN int64) error

	// Load 按文件名读取封面,文件名不能逃出封面目录
	Load(ctx context.Context, filename string) (*Cover, error)
}

// DetachedCover 已移出的封面
type DetachedCover interface {
	// Restore 放回原文件名
	Restore() error
	// Purge 彻底删除
	Purge() error
}

// CoverFileName 根据原始文件名计算封面文件名
//
// 扩展名取最后一个"."之后的部分并转小写:
//   - 没有扩展名 → ErrInvalidCoverName
//   - 扩展名不是jpg → ErrInvalidCoverExtension
func CoverFileName(originalName string, isbn int64) (string, error) {
	idx := strings.LastIndex(originalName, ".")
	if idx < 0 {
		return "", ErrInvalidCoverName
	}
	if ext := strings.ToLower(originalName[idx+1:]); ext != CoverExtension {
		return "", ErrInvalidCoverExtension
	}
	return CoverFileFor(isbn), nil
}

// CoverFileFor ISBN对应的封面文件名
func CoverFileFor(isbn int64) string {
	return strconv.FormatInt(isbn, 10) + "." + CoverExtension
}

// Check 上传前校验文件名和声明的大小,nil表示没有上传封面
// maxSize <= 0 表示不限制大小
func (u *CoverUpload) Check(isbn, maxSize int64) error {
	if u == nil {
		return nil
	}
	if _, err := CoverFileName(u.Filename, isbn); err != nil {
		return err
	}
	if maxSize > 0 && u.Size > maxSize {
		return ErrCoverTooLarge
	}
	return nil
}

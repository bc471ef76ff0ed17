package cover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/metrics"
)

const defaultContentType = "application/octet-stream"

// Store 本地磁盘封面存储,实现 book.CoverStore
//
// 写入流程: 临时文件 → 写入 → fsync → rename
// 同名文件被整体替换,读取方不会看到写了一半的封面。
type Store struct {
	dir     string
	maxSize int64
	log     *zap.Logger
}

var _ book.CoverStore = (*Store)(nil)

// NewStore 创建封面存储,目录不存在时自动创建
func NewStore(cfg *config.Config, log *zap.Logger) (*Store, error) {
	dir := cfg.Storage.CoverDir
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("创建封面目录 %s 失败: %w", dir, err)
	}
	return &Store{dir: dir, maxSize: cfg.Storage.MaxCoverSize, log: log}, nil
}

// Check 按存储上限校验上传的封面,在写库事务内调用
func (s *Store) Check(upload *book.CoverUpload, isbn int64) error {
	return upload.Check(isbn, s.maxSize)
}

// Save 保存封面为 "<isbn>.jpg"
// 声明的大小已在Check中校验,这里按实际读到的字节数再限制一次
func (s *Store) Save(ctx context.Context, upload *book.CoverUpload, isbn int64) (err error) {
	if upload == nil {
		return nil
	}
	defer func() { metrics.ObserveCoverOperation("save", err) }()

	if err := s.Check(upload, isbn); err != nil {
		return err
	}
	name := book.CoverFileFor(isbn)
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := filepath.Join(s.dir, name)
	tmpPath := filepath.Join(s.dir, "."+name+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o640)
	if err != nil {
		return book.ErrCoverStorage.WithCause(err)
	}

	src := upload.Content
	if s.maxSize > 0 {
		// 多读一个字节用来判断是否超限
		src = io.LimitReader(upload.Content, s.maxSize+1)
	}
	written, err := io.Copy(f, src)
	if err == nil && s.maxSize > 0 && written > s.maxSize {
		err = book.ErrCoverTooLarge
	}
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpPath, fullPath)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		if errors.Is(err, book.ErrCoverTooLarge) {
			return err
		}
		return book.ErrCoverStorage.WithCause(err)
	}

	s.log.Debug("封面已保存", zap.String("file", name), zap.Int64("size", written))
	return nil
}

// Delete 删除 "<isbn>.jpg",文件不存在时返回nil
func (s *Store) Delete(ctx context.Context, isbn int64) (err error) {
	defer func() { metrics.ObserveCoverOperation("delete", err) }()

	name := book.CoverFileFor(isbn)
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return book.ErrCoverStorage.WithCause(err)
	}
	return nil
}

// Detach 把 "<isbn>.jpg" 改名为隐藏的暂存文件
// 文件不存在时返回的DetachedCover什么也不做
func (s *Store) Detach(ctx context.Context, isbn int64) (d book.DetachedCover, err error) {
	defer func() { metrics.ObserveCoverOperation("detach", err) }()

	name := book.CoverFileFor(isbn)
	original := filepath.Join(s.dir, name)
	staged := filepath.Join(s.dir, "."+name+"."+uuid.NewString()+".detached")
	if err := os.Rename(original, staged); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return detachedCover{}, nil
		}
		return nil, book.ErrCoverStorage.WithCause(err)
	}
	return detachedCover{original: original, staged: staged}, nil
}

// detachedCover 零值表示没有封面可处理
type detachedCover struct {
	original string
	staged   string
}

func (d detachedCover) Restore() error {
	if d.staged == "" {
		return nil
	}
	if err := os.Rename(d.staged, d.original); err != nil {
		return book.ErrCoverStorage.WithCause(err)
	}
	return nil
}

func (d detachedCover) Purge() error {
	if d.staged == "" {
		return nil
	}
	if err := os.Remove(d.staged); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return book.ErrCoverStorage.WithCause(err)
	}
	return nil
}

// Rename ISBN变更时把封面改名为新ISBN
func (s *Store) Rename(ctx context.Context, fromISBN, toISBN int64) (err error) {
	if fromISBN == toISBN {
		return nil
	}
	defer func() { metrics.ObserveCoverOperation("rename", err) }()

	from := filepath.Join(s.dir, book.CoverFileFor(fromISBN))
	to := filepath.Join(s.dir, book.CoverFileFor(toISBN))
	if err := os.Rename(from, to); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return book.ErrCoverStorage.WithCause(err)
	}
	s.log.Debug("封面已改名", zap.Int64("from", fromISBN), zap.Int64("to", toISBN))
	return nil
}

// Load 按文件名读取封面
// 文件名只能是封面目录下的一个文件,带路径分隔符或 ".." 的一律按不存在处理
func (s *Store) Load(ctx context.Context, filename string) (c *book.Cover, err error) {
	defer func() { metrics.ObserveCoverOperation("load", err) }()

	if !isPlainFileName(filename) {
		return nil, book.ErrCoverNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, book.ErrCoverNotFound
		}
		return nil, book.ErrCoverStorage.WithCause(err)
	}

	contentType := mimetype.Detect(data).String()
	if contentType == "" {
		contentType = defaultContentType
	}
	return &book.Cover{Filename: filename, ContentType: contentType, Data: data}, nil
}

func isPlainFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return filepath.Base(name) == name && filepath.IsLocal(name)
}

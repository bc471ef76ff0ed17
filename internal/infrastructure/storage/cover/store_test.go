package cover

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/config"
)

// jpegHeader 最小的JPEG文件头,足够让mimetype识别
var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func newTestStore(t *testing.T, maxSize int64) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "covers")
	cfg := &config.Config{Storage: config.StorageConfig{CoverDir: dir, MaxCoverSize: maxSize}}
	s, err := NewStore(cfg, zap.NewNop())
	require.NoError(t, err)
	return s, dir
}

func upload(name string, data []byte) *book.CoverUpload {
	return &book.CoverUpload{Filename: name, Content: bytes.NewReader(data), Size: int64(len(data))}
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestStore(t, 1024)

	require.NoError(t, s.Save(ctx, upload("portada.JPG", jpegHeader), 9781234567897))

	c, err := s.Load(ctx, "9781234567897.jpg")
	require.NoError(t, err)
	assert.Equal(t, jpegHeader, c.Data)
	assert.Equal(t, "image/jpeg", c.ContentType)

	// 再次上传整体替换
	require.NoError(t, s.Save(ctx, upload("otra.jpg", append(jpegHeader, 0x01)), 9781234567897))
	c, err = s.Load(ctx, "9781234567897.jpg")
	require.NoError(t, err)
	assert.Len(t, c.Data, len(jpegHeader)+1)

	// 不留临时文件
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_SaveRejects(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestStore(t, 4)

	assert.NoError(t, s.Save(ctx, nil, 1), "未上传封面时什么也不做")
	assert.ErrorIs(t, s.Save(ctx, upload("cover", jpegHeader), 1), book.ErrInvalidCoverName)
	assert.ErrorIs(t, s.Save(ctx, upload("cover.png", jpegHeader), 1), book.ErrInvalidCoverExtension)
	assert.ErrorIs(t, s.Save(ctx, upload("cover.jpg", jpegHeader), 1), book.ErrCoverTooLarge)

	// Size未知时靠实际写入字节数判断
	big := &book.CoverUpload{Filename: "cover.jpg", Content: strings.NewReader("123456789")}
	assert.ErrorIs(t, s.Save(ctx, big, 1), book.ErrCoverTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_DeleteAndRename(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, 0)

	assert.NoError(t, s.Delete(ctx, 42), "文件不存在不算错误")
	assert.NoError(t, s.Rename(ctx, 42, 43), "源文件不存在时什么也不做")

	require.NoError(t, s.Save(ctx, upload("a.jpg", jpegHeader), 42))
	require.NoError(t, s.Rename(ctx, 42, 43))

	_, err := s.Load(ctx, "42.jpg")
	assert.ErrorIs(t, err, book.ErrCoverNotFound)
	_, err = s.Load(ctx, "43.jpg")
	assert.NoError(t, err)

	require.NoError(t, s.Delete(ctx, 43))
	_, err = s.Load(ctx, "43.jpg")
	assert.ErrorIs(t, err, book.ErrCoverNotFound)
}

func TestStore_LoadRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestStore(t, 0)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(dir), "secret.txt"), []byte("x"), 0o600))

	for _, name := range []string{"", ".", "..", "../secret.txt", "sub/1.jpg", "/etc/passwd"} {
		_, err := s.Load(ctx, name)
		assert.ErrorIs(t, err, book.ErrCoverNotFound, name)
	}
}

func TestStore_LoadUnknownContent(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestStore(t, 0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.jpg"), []byte{0x00, 0x01, 0x02}, 0o600))

	c, err := s.Load(ctx, "blob.jpg")
	require.NoError(t, err)
	assert.Equal(t, defaultContentType, c.ContentType)
}

func TestStore_CheckUsesConfiguredLimit(t *testing.T) {
	s, dir := newTestStore(t, 4)

	assert.NoError(t, s.Check(nil, 1))
	assert.NoError(t, s.Check(&book.CoverUpload{Filename: "a.jpg", Size: 4}, 1))
	assert.ErrorIs(t, s.Check(&book.CoverUpload{Filename: "a.jpg", Size: 5}, 1), book.ErrCoverTooLarge)
	assert.ErrorIs(t, s.Check(&book.CoverUpload{Filename: "a", Size: 1}, 1), book.ErrInvalidCoverName)

	// 只校验,不落盘
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_Detach(t *testing.T) {
	ctx := context.Background()

	t.Run("Restore放回原文件", func(t *testing.T) {
		s, dir := newTestStore(t, 0)
		require.NoError(t, s.Save(ctx, upload("a.jpg", jpegHeader), 42))

		d, err := s.Detach(ctx, 42)
		require.NoError(t, err)
		_, err = s.Load(ctx, "42.jpg")
		assert.ErrorIs(t, err, book.ErrCoverNotFound, "暂存期间不可读")

		require.NoError(t, d.Restore())
		c, err := s.Load(ctx, "42.jpg")
		require.NoError(t, err)
		assert.Equal(t, jpegHeader, c.Data)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("Purge删除暂存文件", func(t *testing.T) {
		s, dir := newTestStore(t, 0)
		require.NoError(t, s.Save(ctx, upload("a.jpg", jpegHeader), 42))

		d, err := s.Detach(ctx, 42)
		require.NoError(t, err)
		require.NoError(t, d.Purge())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("没有封面", func(t *testing.T) {
		s, _ := newTestStore(t, 0)
		d, err := s.Detach(ctx, 42)
		require.NoError(t, err)
		assert.NoError(t, d.Restore())
		assert.NoError(t, d.Purge())
	})
}

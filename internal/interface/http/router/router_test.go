package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appbook "github.com/xiebiao/library/internal/application/book"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/storage/cover"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/jwt"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

// memorySessions 会话和黑名单的内存实现
type memorySessions struct {
	blacklist map[string]bool
}

func (s *memorySessions) SaveSession(context.Context, uint, map[string]interface{}, time.Duration) error {
	return nil
}

func (s *memorySessions) DeleteSession(context.Context, uint) error { return nil }

func (s *memorySessions) AddToBlacklist(_ context.Context, token string, _ time.Duration) error {
	s.blacklist[token] = true
	return nil
}

func (s *memorySessions) IsInBlacklist(_ context.Context, token string) (bool, error) {
	return s.blacklist[token], nil
}

// newTestServer 用SQLite内存库和临时封面目录组装完整路由
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", AutoMigrate: true},
		Storage:  config.StorageConfig{CoverDir: filepath.Join(t.TempDir(), "covers"), MaxCoverSize: 1 << 20},
	}
	log := zap.NewNop()

	db, cleanup, err := mysql.NewDB(cfg, log)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	covers, err := cover.NewStore(cfg, log)
	require.NoError(t, err)

	bookRepo := mysql.NewBookRepository(db)
	bookService := book.NewService(bookRepo, book.NewValidator(bookRepo))
	tx := mysql.NewTxManager(db)
	userService := user.NewService(mysql.NewUserRepository(db), user.WithHashCost(bcrypt.MinCost))
	sessions := &memorySessions{blacklist: make(map[string]bool)}
	jwtManager := jwt.NewManager("test-secret", "library", time.Hour, 24*time.Hour)

	userHandler := handler.NewUserHandler(
		appuser.NewRegisterUseCase(userService, log),
		appuser.NewLoginUseCase(userService, jwtManager, sessions, 24*time.Hour, log),
		appuser.NewLogoutUseCase(sessions),
		appuser.NewGetCurrentUserUseCase(userService),
		appuser.NewRefreshTokenUseCase(jwtManager),
	)
	bookHandler := handler.NewBookHandler(
		appbook.NewCreateBookUseCase(bookService, covers, tx, nil, log),
		appbook.NewUpdateBookUseCase(bookService, covers, tx, nil, nil, log),
		appbook.NewDeleteBookUseCase(bookService, covers, tx, nil, nil, log),
		appbook.NewListBooksUseCase(bookService),
		appbook.NewSearchBooksUseCase(bookService),
		appbook.NewGetBookUseCase(bookService, nil, log),
		appbook.NewCountBooksUseCase(bookService),
		appbook.NewRandomBooksUseCase(bookService),
		appbook.NewLocationTreeUseCase(bookService, log),
	)
	coverHandler := handler.NewCoverHandler(appbook.NewGetCoverUseCase(covers))

	return New(cfg, log, userHandler, bookHandler, coverHandler, middleware.NewAuthMiddleware(jwtManager, sessions))
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// bookForm 构造multipart表单,coverName为空表示不上传封面
func bookForm(t *testing.T, method, path, token string, fields map[string]string, coverName string) *http.Request {
	t.Helper()
	return bookFormWithCover(t, method, path, token, fields, coverName, jpegBytes)
}

func bookFormWithCover(t *testing.T, method, path, token string, fields map[string]string, coverName string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if coverName != "" {
		fw, err := mw.CreateFormFile("cover", coverName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func login(t *testing.T, r http.Handler) string {
	t.Helper()
	w, _ := do(t, r, jsonRequest(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "admin@library.org", "password": "secret123", "nickname": "admin",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, r, jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "admin@library.org", "password": "secret123",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var data appuser.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.AccessToken
}

func TestCatalogRoutes(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r)

	t.Run("未登录不能新增", func(t *testing.T) {
		w, _ := do(t, r, bookForm(t, http.MethodPost, "/api/v1/books", "", map[string]string{"isbn": "1", "title": "A"}, ""))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("新增图书和封面", func(t *testing.T) {
		w, env := do(t, r, bookForm(t, http.MethodPost, "/api/v1/books", token, map[string]string{
			"isbn": "9781234567897", "title": "Rayuela", "author": " cortázar ", "location": "p-a12",
		}, "portada.jpg"))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, appbook.MessageBookSaved, env.Message)

		var b appbook.BookResponse
		require.NoError(t, json.Unmarshal(env.Data, &b))
		assert.Equal(t, "CORTÁZAR", b.Author)
		assert.Equal(t, "P-A12", b.Location)
		assert.Equal(t, book.DefaultPublisher, b.Publisher)

		w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/covers/9781234567897.jpg", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
		assert.Equal(t, jpegBytes, w.Body.Bytes())
	})

	t.Run("重复ISBN返回409", func(t *testing.T) {
		w, _ := do(t, r, bookForm(t, http.MethodPost, "/api/v1/books", token, map[string]string{
			"isbn": "9781234567897", "title": "Otra", "location": "P-A2",
		}, ""))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("png封面返回400", func(t *testing.T) {
		w, _ := do(t, r, bookForm(t, http.MethodPost, "/api/v1/books", token, map[string]string{
			"isbn": "2", "title": "B", "location": "P-A3",
		}, "cover.png"))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/books/isbn/2", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("缺少书名返回400", func(t *testing.T) {
		w, _ := do(t, r, bookForm(t, http.MethodPost, "/api/v1/books", token, map[string]string{"isbn": "3"}, ""))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("修改图书", func(t *testing.T) {
		w, env := do(t, r, bookForm(t, http.MethodPut, "/api/v1/books/9781234567897", token, map[string]string{
			"isbn": "9781234567897", "title": "Rayuela", "author": "Cortázar", "location": "P-A12",
		}, ""))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, appbook.MessageBookUpdated, env.Message)
	})

	t.Run("读接口", func(t *testing.T) {
		w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/books/search/+", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var all []appbook.BookResponse
		require.NoError(t, json.Unmarshal(env.Data, &all))

		w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/books/count", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var count appbook.CountBooksResponse
		require.NoError(t, json.Unmarshal(env.Data, &count))
		assert.Equal(t, int64(len(all)), count.Count)

		w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/books/sorted/author", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/books/location", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var tree []appbook.ShelfResponse
		require.NoError(t, json.Unmarshal(env.Data, &tree))
		require.Len(t, tree, 1)
		assert.Equal(t, "P", tree[0].Shelf)
		assert.Equal(t, 12, tree[0].Sections[0].Books[0].Position)

		w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/books/random/abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/books/isbn/abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/covers/missing.jpg", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("删除", func(t *testing.T) {
		w, _ := do(t, r, httptest.NewRequest(http.MethodDelete, "/api/v1/books/404", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/books/404", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w, _ = do(t, r, req)
		assert.Equal(t, http.StatusNotFound, w.Code)

		req = httptest.NewRequest(http.MethodDelete, "/api/v1/books/9781234567897", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w, env := do(t, r, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, appbook.MessageBookDeleted, env.Message)

		w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/covers/9781234567897.jpg", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("空封面文件视为未上传", func(t *testing.T) {
		w, _ := do(t, r, bookFormWithCover(t, http.MethodPost, "/api/v1/books", token, map[string]string{
			"isbn": "5", "title": "E", "location": "P-B1",
		}, "vacia.jpg", nil))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/covers/5.jpg", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)

		// 修改时上传空文件也不会覆盖成空封面
		w, _ = do(t, r, bookFormWithCover(t, http.MethodPut, "/api/v1/books/5", token, map[string]string{
			"isbn": "6", "title": "E", "location": "P-B1",
		}, "vacia.jpg", nil))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/covers/6.jpg", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAuthRoutes(t *testing.T) {
	r := newTestServer(t)
	token := login(t, r)

	me := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w, _ := do(t, r, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, me())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w, _ := do(t, r, req)
	require.Equal(t, http.StatusOK, w.Code)

	// 登出后Token进入黑名单
	assert.Equal(t, http.StatusUnauthorized, me())

	w, _ = do(t, r, jsonRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "admin@library.org", "password": "wrong123",
	}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPing(t *testing.T) {
	r := newTestServer(t)
	w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, env.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

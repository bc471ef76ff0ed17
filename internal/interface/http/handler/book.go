package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
// 设计说明：
// 1. 读接口公开，写接口需要登录
// 2. 写接口使用multipart表单，封面为可选的cover文件字段
// 3. 当前用户ID从认证中间件取出后显式传给用例
type BookHandler struct {
	createBook   *appbook.CreateBookUseCase
	updateBook   *appbook.UpdateBookUseCase
	deleteBook   *appbook.DeleteBookUseCase
	listBooks    *appbook.ListBooksUseCase
	searchBooks  *appbook.SearchBooksUseCase
	getBook      *appbook.GetBookUseCase
	countBooks   *appbook.CountBooksUseCase
	randomBooks  *appbook.RandomBooksUseCase
	locationTree *appbook.LocationTreeUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBook *appbook.CreateBookUseCase,
	updateBook *appbook.UpdateBookUseCase,
	deleteBook *appbook.DeleteBookUseCase,
	listBooks *appbook.ListBooksUseCase,
	searchBooks *appbook.SearchBooksUseCase,
	getBook *appbook.GetBookUseCase,
	countBooks *appbook.CountBooksUseCase,
	randomBooks *appbook.RandomBooksUseCase,
	locationTree *appbook.LocationTreeUseCase,
) *BookHandler {
	return &BookHandler{
		createBook:   createBook,
		updateBook:   updateBook,
		deleteBook:   deleteBook,
		listBooks:    listBooks,
		searchBooks:  searchBooks,
		getBook:      getBook,
		countBooks:   countBooks,
		randomBooks:  randomBooks,
		locationTree: locationTree,
	}
}

// CreateBook 新增图书
// @Summary      新增图书
// @Description  作者/出版社/年份/位置为空时取缺省值(S.A/S.E/S.F/---)，ISBN和书架位置必须唯一
// @Tags         图书
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        isbn formData int true "ISBN"
// @Param        title formData string true "书名"
// @Param        author formData string false "作者"
// @Param        publisher formData string false "出版社"
// @Param        publication_year formData string false "出版年份"
// @Param        location formData string false "书架位置，如P-A12"
// @Param        cover formData file false "封面(jpg)"
// @Success      200 {object} response.Response{data=appbook.BookResponse} "图书保存成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "ISBN或位置冲突"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var form dto.BookForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, apperrors.ErrBindError.WithCause(err))
		return
	}

	upload, closeCover, err := openCover(form.Cover)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeCover()

	result, err := h.createBook.Execute(c.Request.Context(), appbook.CreateBookRequest{
		BookDraft:  toDraft(&form),
		Cover:      upload,
		OperatorID: middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, result.Message, result.Book)
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Description  按路径中的ISBN定位图书并整体覆盖；ISBN变化且未上传封面时，原封面随之改名
// @Tags         图书
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        isbn path int true "当前ISBN"
// @Param        cover formData file false "封面(jpg)"
// @Success      200 {object} response.Response{data=appbook.BookResponse} "图书更新成功"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "ISBN或位置冲突"
// @Router       /api/v1/books/{isbn} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	isbn, err := parseISBN(c.Param("isbn"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var form dto.BookForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, apperrors.ErrBindError.WithCause(err))
		return
	}

	upload, closeCover, err := openCover(form.Cover)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeCover()

	result, err := h.updateBook.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ISBN:       isbn,
		BookDraft:  toDraft(&form),
		Cover:      upload,
		OperatorID: middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, result.Message, result.Book)
}

// DeleteBook 删除图书(同时删除封面)
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        isbn path int true "ISBN"
// @Success      200 {object} response.Response "图书删除成功"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{isbn} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	isbn, err := parseISBN(c.Param("isbn"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.deleteBook.Execute(c.Request.Context(), appbook.DeleteBookRequest{
		ISBN:       isbn,
		OperatorID: middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, result.Message, result.Book)
}

// ListBooks 排序列表
// @Summary      图书列表
// @Description  sortBy: title(默认)/author/publisher/publication_year/id，缺省值排在最后
// @Tags         图书
// @Produce      json
// @Param        sortBy path string true "排序字段"
// @Success      200 {object} response.Response{data=[]appbook.BookResponse}
// @Router       /api/v1/books/sorted/{sortBy} [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.listBooks.Execute(c.Request.Context(), c.Param("sortBy"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, books)
}

// SearchBooks 关键字搜索
// @Summary      关键字搜索
// @Description  不区分大小写匹配ISBN/书名/作者/出版社/年份/位置，"+"返回全部
// @Tags         图书
// @Produce      json
// @Param        keyword path string true "关键字"
// @Success      200 {object} response.Response{data=[]appbook.BookResponse}
// @Router       /api/v1/books/search/{keyword} [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	books, err := h.searchBooks.Execute(c.Request.Context(), c.Param("keyword"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, books)
}

// GetBook 按ISBN查询
// @Summary      按ISBN查询
// @Tags         图书
// @Produce      json
// @Param        isbn path int true "ISBN"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/isbn/{isbn} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	isbn, err := parseISBN(c.Param("isbn"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.getBook.Execute(c.Request.Context(), isbn)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CountBooks 图书总数
// @Summary      图书总数
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=appbook.CountBooksResponse}
// @Router       /api/v1/books/count [get]
func (h *BookHandler) CountBooks(c *gin.Context) {
	result, err := h.countBooks.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RandomBooks 随机推荐
// @Summary      随机推荐
// @Tags         图书
// @Produce      json
// @Param        count path int true "数量"
// @Success      200 {object} response.Response{data=[]appbook.BookResponse}
// @Router       /api/v1/books/random/{count} [get]
func (h *BookHandler) RandomBooks(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil {
		response.Error(c, book.ErrInvalidCount.WithCause(err))
		return
	}

	books, err := h.randomBooks.Execute(c.Request.Context(), count)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, books)
}

// LocationTree 书架位置树
// @Summary      书架位置树
// @Description  书架 → 区段 → 序号；位置无法解析的图书不出现在树中
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]appbook.ShelfResponse}
// @Router       /api/v1/books/location [get]
func (h *BookHandler) LocationTree(c *gin.Context) {
	tree, err := h.locationTree.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tree)
}

// =========================================
// 辅助函数
// =========================================

func parseISBN(raw string) (int64, error) {
	isbn, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || isbn <= 0 {
		return 0, book.ErrInvalidISBN
	}
	return isbn, nil
}

func toDraft(form *dto.BookForm) appbook.BookDraft {
	return appbook.BookDraft{
		ISBN:            form.ISBN,
		Title:           form.Title,
		Author:          form.Author,
		Publisher:       form.Publisher,
		PublicationYear: form.PublicationYear,
		Location:        form.Location,
	}
}

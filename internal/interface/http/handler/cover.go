package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/response"
)

// CoverHandler 封面文件读取
type CoverHandler struct {
	getCover *appbook.GetCoverUseCase
}

func NewCoverHandler(getCover *appbook.GetCoverUseCase) *CoverHandler {
	return &CoverHandler{getCover: getCover}
}

// GetCover 返回封面原始字节
// @Summary      读取封面
// @Tags         封面
// @Produce      image/jpeg
// @Param        filename path string true "封面文件名，如9781234567897.jpg"
// @Success      200 {file} file
// @Failure      404 {object} response.Response "封面不存在"
// @Router       /api/v1/covers/{filename} [get]
func (h *CoverHandler) GetCover(c *gin.Context) {
	cover, err := h.getCover.Execute(c.Request.Context(), c.Param("filename"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, cover.ContentType, cover.Data)
}

// openCover 打开上传的封面，未上传或文件为空时返回nil
func openCover(fh *multipart.FileHeader) (*book.CoverUpload, func(), error) {
	if fh == nil || fh.Size == 0 {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, book.ErrCoverStorage.WithCause(err)
	}
	upload := &book.CoverUpload{Filename: fh.Filename, Content: f, Size: fh.Size}
	return upload, func() { _ = f.Close() }, nil
}

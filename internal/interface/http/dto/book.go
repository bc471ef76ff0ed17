package dto

import "mime/multipart"

// BookForm 新增/修改图书的multipart表单
// binding只做格式层面的校验，去空白、缺省值、长度上限由领域层负责
type BookForm struct {
	ISBN            int64                 `form:"isbn" binding:"required,gt=0" example:"9781234567897"`
	Title           string                `form:"title" binding:"required" example:"Rayuela"`
	Author          string                `form:"author" example:"Julio Cortázar"`
	Publisher       string                `form:"publisher" example:"Sudamericana"`
	PublicationYear string                `form:"publication_year" example:"1963"`
	Location        string                `form:"location" example:"P-A12"`
	Cover           *multipart.FileHeader `form:"cover" swaggerignore:"true"` // 可选，仅支持jpg
}

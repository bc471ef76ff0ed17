package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrLocationOccupied 书架位置已被其他图书占用
	ErrLocationOccupied = apperrors.New(apperrors.ErrCodeLocationOccupied, "该书架位置已被占用")

	// ErrInvalidISBN ISBN必须为正整数
	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN必须为正整数")

	// ErrInvalidCount 随机数量不能为负数
	ErrInvalidCount = apperrors.New(apperrors.ErrCodeInvalidParams, "数量不能为负数")

	ErrTitleRequired          = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")
	ErrTitleTooLong           = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能超过120个字符")
	ErrAuthorTooLong          = apperrors.New(apperrors.ErrCodeInvalidParams, "作者不能超过100个字符")
	ErrPublisherTooLong       = apperrors.New(apperrors.ErrCodeInvalidParams, "出版社不能超过50个字符")
	ErrPublicationYearTooLong = apperrors.New(apperrors.ErrCodeInvalidParams, "出版年份不能超过6个字符")
	ErrLocationTooLong        = apperrors.New(apperrors.ErrCodeInvalidParams, "书架位置不能超过6个字符")

	// 封面相关
	ErrInvalidCoverName      = apperrors.New(apperrors.ErrCodeInvalidCover, "封面文件名无效")
	ErrInvalidCoverExtension = apperrors.New(apperrors.ErrCodeInvalidCover, "封面只支持jpg格式")
	ErrCoverTooLarge         = apperrors.New(apperrors.ErrCodeInvalidCover, "封面文件过大")
	ErrCoverNotFound         = apperrors.New(apperrors.ErrCodeCoverNotFound, "封面不存在")

	// ErrCoverStorage 封面文件读写失败(使用WithCause附带底层I/O错误)
	ErrCoverStorage = apperrors.New(apperrors.ErrCodeStorageError, "封面文件存储失败")
)

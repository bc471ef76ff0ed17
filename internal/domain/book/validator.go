package book

import "context"

// Validator 唯一性校验
// 在任何持久化或文件写入之前调用,数据库唯一索引只是兜底
type Validator interface {
	EnsureISBNIsUnique(ctx context.Context, isbn int64) error
	EnsureLocationIsAvailable(ctx context.Context, location string) error
}

type validator struct {
	repo Repository
}

// NewValidator 创建唯一性校验器
func NewValidator(repo Repository) Validator {
	return &validator{repo: repo}
}

// EnsureISBNIsUnique ISBN已被使用时返回ErrISBNDuplicate
func (v *validator) EnsureISBNIsUnique(ctx context.Context, isbn int64) error {
	exists, err := v.repo.ExistsByISBN(ctx, isbn)
	if err != nil {
		return err
	}
	if exists {
		return ErrISBNDuplicate
	}
	return nil
}

// EnsureLocationIsAvailable 位置已被占用时返回ErrLocationOccupied
// 未上架的缺省位置"---"可被任意多本书共用,不查库
func (v *validator) EnsureLocationIsAvailable(ctx context.Context, location string) error {
	if location == DefaultLocation {
		return nil
	}
	exists, err := v.repo.ExistsByLocation(ctx, location)
	if err != nil {
		return err
	}
	if exists {
		return ErrLocationOccupied
	}
	return nil
}

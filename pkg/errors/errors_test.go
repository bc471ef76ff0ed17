package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorIs(t *testing.T) {
	t.Run("附带原因的副本仍匹配预定义错误", func(t *testing.T) {
		cause := errors.New("disk full")
		err := fmt.Errorf("save cover: %w", ErrStorageError.WithCause(cause))

		assert.True(t, errors.Is(err, ErrStorageError))
		assert.True(t, errors.Is(err, cause))
		assert.Nil(t, ErrStorageError.Err, "预定义错误不应被修改")
	})

	t.Run("不同错误码不匹配", func(t *testing.T) {
		assert.False(t, errors.Is(ErrEmailDuplicate, ErrWeakPassword))
	})
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code int
		want int
	}{
		{ErrCodeISBNDuplicate, http.StatusConflict},
		{ErrCodeLocationOccupied, http.StatusConflict},
		{ErrCodeEmailDuplicate, http.StatusConflict},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeBookNotFound, http.StatusNotFound},
		{ErrCodeCoverNotFound, http.StatusNotFound},
		{ErrCodeInvalidParams, http.StatusBadRequest},
		{ErrCodeInvalidCover, http.StatusBadRequest},
		{ErrCodeWeakPassword, http.StatusBadRequest},
		{ErrCodeStorageError, http.StatusInternalServerError},
		{ErrCodeDatabaseError, http.StatusInternalServerError},
		{12345, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.code), "code=%d", tc.code)
	}
}

func TestGetAppError(t *testing.T) {
	appErr := GetAppError(errors.New("boom"))
	assert.Equal(t, ErrCodeInternal, appErr.Code)

	wrapped := fmt.Errorf("outer: %w", ErrUserNotFound)
	assert.Equal(t, ErrCodeUserNotFound, GetAppError(wrapped).Code)
}

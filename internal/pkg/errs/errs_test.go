package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorDefaultsStatusToBadRequest(t *testing.T) {
	err := NewError(ErrAlreadyMember)

	assert.Equal(t, ErrAlreadyMember, err.Code)
	assert.Equal(t, KindBusiness, err.Kind)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "用戶已在聊天室", err.Message)
}

func TestNewErrorUnknownCodeFallsBack(t *testing.T) {
	err := NewError(999999)

	assert.Equal(t, ErrUnknown, err.Code)
	assert.Equal(t, KindInternal, err.Kind)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestNewErrorReturnsIndependentCopies(t *testing.T) {
	a := NewError(ErrChatNotFound)
	a.Message = "changed"

	b := NewError(ErrChatNotFound)
	assert.Equal(t, "聊天室不存在", b.Message)
}

func TestFromUnwrapsChain(t *testing.T) {
	wrapped := fmt.Errorf("leave: %w", NewError(ErrNotMember))

	customErr, ok := From(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrNotMember, customErr.Code)
	assert.True(t, IsKind(wrapped, KindBusiness))
	assert.True(t, errors.Is(wrapped, NewError(ErrNotMember)))
	assert.False(t, errors.Is(wrapped, NewError(ErrChatNotFound)))

	_, ok = From(errors.New("plain"))
	assert.False(t, ok)
}

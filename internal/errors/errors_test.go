package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := NotFound("user not found")
	assert.Equal(t, "user not found", err.Error())

	wrapped := Wrap(stderrors.New("boom"), ErrCodeInternal, "query failed")
	assert.Equal(t, "query failed: boom", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(cause, ErrCodeInternal, "wrapped")

	assert.True(t, stderrors.Is(err, cause))
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "ignored %d", 1))
}

func TestCodePredicates(t *testing.T) {
	tests := []struct {
		err   error
		check func(error) bool
	}{
		{NotFound("x"), IsNotFound},
		{Conflict("x"), IsConflict},
		{Validation("x"), IsValidation},
		{Wrap(stderrors.New("idp down"), ErrCodeAuthProvider, "exchange failed"), IsAuthProvider},
		{Internal("x"), IsInternal},
	}
	for _, tt := range tests {
		assert.True(t, tt.check(tt.err), "predicate failed for %v", tt.err)
	}

	// Predicates see through additional wrapping.
	deep := fmt.Errorf("outer: %w", NotFoundf("user %s", "u-1"))
	assert.True(t, IsNotFound(deep))
	assert.False(t, IsConflict(deep))
}

func TestGetCodeAndField(t *testing.T) {
	err := ValidationField("role", "invalid role")
	assert.Equal(t, ErrCodeValidation, GetCode(err))
	assert.Equal(t, "role", GetField(err))

	plain := stderrors.New("plain")
	assert.Equal(t, ErrorCode(""), GetCode(plain))
	assert.Equal(t, "", GetField(plain))
}

func TestGetCode_WrappedAppError(t *testing.T) {
	inner := Conflict("duplicate email")
	outer := fmt.Errorf("upsert user: %w", inner)

	require.Equal(t, ErrCodeConflict, GetCode(outer))
}

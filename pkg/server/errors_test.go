package server

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapErrorfKeepsKindAndCause(t *testing.T) {
	cause := errors.New("badger: key not found")
	err := WrapErrorf(cause, ErrNotFound, "station %q is not on the network", "Holborn")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrBadParamInput))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, `station "Holborn" is not on the network: badger: key not found`, err.Error())

	var kinded *Error
	assert.True(t, errors.As(err, &kinded))
	assert.Equal(t, ErrNotFound, kinded.Kind())
}

func TestNewErrorfWithoutCause(t *testing.T) {
	err := NewErrorf(ErrBadParamInput, "origin and destination are the same station")

	assert.True(t, errors.Is(err, ErrBadParamInput))
	assert.Equal(t, "origin and destination are the same station", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

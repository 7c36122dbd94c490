package ens

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := &Error{Op: "resolver", Err: cause}

	assert.Equal(t, "ens resolver: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	var ensErr *Error
	require.ErrorAs(t, error(err), &ensErr)
	assert.Equal(t, "resolver", ensErr.Op)
}

func TestNotFoundIsNotProtocolError(t *testing.T) {
	var ensErr *Error
	assert.False(t, errors.As(ErrNotFound, &ensErr))
	assert.ErrorIs(t, ErrNotFound, ErrNotFound)
}

// The contract ABIs are parsed at package init; touching them here keeps a
// broken ABI literal from going unnoticed until a live call.
func TestABIsParse(t *testing.T) {
	for _, method := range []string{"resolver", "owner"} {
		_, ok := registryABI.Methods[method]
		assert.True(t, ok, "registry method %s", method)
	}
	for _, method := range []string{"addr", "name", "text"} {
		_, ok := resolverABI.Methods[method]
		assert.True(t, ok, "resolver method %s", method)
	}
	_, ok := multiAddrABI.Methods["addr"]
	assert.True(t, ok, "multi-coin addr method")
}

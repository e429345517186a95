package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteWrapsCause(t *testing.T) {
	err := Remote(io.ErrUnexpectedEOF)

	assert.True(t, IsType(err, ErrorTypeRemote))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "unexpected EOF")
	assert.Nil(t, Remote(nil))
}

func TestRemoteDoesNotDoubleWrap(t *testing.T) {
	first := Remote(io.EOF)
	assert.Same(t, first, Remote(first))
}

func TestIsTypeWalksChain(t *testing.T) {
	transport := &Error{Type: ErrorTypeServerError, Code: 503, Message: "unavailable"}
	wrapped := fmt.Errorf("page 2: %w", Remote(transport))

	assert.True(t, IsType(wrapped, ErrorTypeRemote))
	assert.True(t, IsType(wrapped, ErrorTypeServerError))
	assert.False(t, IsType(wrapped, ErrorTypeProgramming))
	assert.False(t, IsType(stderrors.New("plain"), ErrorTypeRemote))
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"with code", &Error{Type: ErrorTypeNotFound, Code: 404, Message: "missing"}, "not_found error (code 404): missing"},
		{"without code", Programming("task %d lost", 3), "programming error: task 3 lost"},
		{"instrument", InvalidInstrument("Z"), `invalid_instrument error: invalid camera instrument "Z"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestTypeForStatus(t *testing.T) {
	assert.Equal(t, ErrorTypeNetwork, TypeForStatus(0))
	assert.Equal(t, ErrorTypeRateLimit, TypeForStatus(429))
	assert.Equal(t, ErrorTypeNotFound, TypeForStatus(404))
	assert.Equal(t, ErrorTypeServerError, TypeForStatus(502))
	assert.Equal(t, ErrorTypeUnknown, TypeForStatus(400))
	assert.True(t, IsStatusError(500))
	assert.False(t, IsStatusError(204))
}

func TestSkippingFileSentinel(t *testing.T) {
	err := fmt.Errorf("fetch: %w", ErrSkippingFile)
	assert.ErrorIs(t, err, ErrSkippingFile)
	assert.False(t, IsType(err, ErrorTypeRemote))
}

package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/backdesk/pkg/types"
)

func TestDecodeError(t *testing.T) {
	t.Run("field errors", func(t *testing.T) {
		err := decodeError(http.StatusUnprocessableEntity,
			[]byte(`{"message":"invalid input","errors":{"email":["is invalid","is taken"],"name":"is required"}}`))

		var ve *types.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, 422, ve.Status)
		assert.Equal(t, []string{"is invalid", "is taken"}, ve.Fields["email"])
		assert.Equal(t, []string{"is required"}, ve.Fields["name"])
		assert.Equal(t, "invalid input: email: is invalid, is taken; name: is required", ve.Error())
	})

	t.Run("message only", func(t *testing.T) {
		err := decodeError(http.StatusConflict, []byte(`{"message":"code already used"}`))

		var se *types.ServerError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "code already used", se.Error())
	})

	t.Run("detail fallback", func(t *testing.T) {
		err := decodeError(http.StatusBadRequest, []byte(`{"detail":"bad payload"}`))
		assert.Equal(t, "bad payload", err.Error())
	})

	t.Run("unstructured body", func(t *testing.T) {
		err := decodeError(http.StatusInternalServerError, []byte(`<html>oops</html>`))
		assert.Equal(t, "request failed with status 500", err.Error())
	})

	t.Run("empty errors object", func(t *testing.T) {
		err := decodeError(http.StatusBadRequest, []byte(`{"errors":{}}`))
		var se *types.ServerError
		assert.True(t, errors.As(err, &se))
	})

	t.Run("unauthorized matches sentinel", func(t *testing.T) {
		err := decodeError(http.StatusUnauthorized, []byte(`{"message":"token expired"}`))
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})
}

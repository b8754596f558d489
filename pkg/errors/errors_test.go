package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedAppError(t *testing.T) {
	err := fmt.Errorf("loading listing: %w", NotFound("Listing", nil))

	assert.True(t, Is(err, "NOT_FOUND"))
	assert.False(t, Is(err, "BAD_REQUEST"))
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
}

func TestStatusOfForeignError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusOf(fmt.Errorf("boom")))
}

func TestUnprocessableKeepsCode(t *testing.T) {
	err := Unprocessable("AI_NO_RESULT", "no usable analysis", nil)

	assert.Equal(t, "AI_NO_RESULT: no usable analysis", err.Error())
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
}

func TestAsUnwrapsAppError(t *testing.T) {
	appErr, ok := As(fmt.Errorf("submit: %w", Conflict("already reviewed")))
	assert.True(t, ok)
	assert.Equal(t, "CONFLICT", appErr.Code)

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

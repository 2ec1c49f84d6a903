package validator

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type bookForm struct {
	ServiceID string `form:"service_id" binding:"required"`
	Notes     string `json:"notes" binding:"max=5"`
	Internal  string `form:"-" binding:"required"`
}

func TestFieldsUsesWireNames(t *testing.T) {
	UseWireNames()

	err := binding.Validator.ValidateStruct(&bookForm{Notes: "too long", Internal: "x"})
	fields := Fields(err)

	assert.Equal(t, "required", fields["service_id"])
	assert.Equal(t, "max=5", fields["notes"])
	assert.Len(t, fields, 2)
}

func TestFieldsNonValidationError(t *testing.T) {
	assert.Nil(t, Fields(nil))
	assert.Equal(t, map[string]string{"_": "unexpected EOF"}, Fields(errors.New("unexpected EOF")))
}

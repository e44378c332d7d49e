package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email  string  `json:"email" validate:"required,email"`
	Name   string  `json:"name" validate:"required,min=1,max=5"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress done"`
	Ref    *int64  `json:"ref" validate:"omitempty,gt=0"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(&sample{Email: "a@b.com", Name: "ok"}))
}

func TestStruct_CollectsAllFieldsUsingJSONNames(t *testing.T) {
	status := "archived"
	ref := int64(-1)
	err := Struct(&sample{Email: "nope", Name: "toolong", Status: &status, Ref: &ref})

	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 4)
	assert.Equal(t, FieldError{Field: "email", Reason: "must be a valid email address"}, verr.Fields[0])
	assert.Equal(t, "name", verr.Fields[1].Field)
	assert.Equal(t, "must be at most 5 characters", verr.Fields[1].Reason)
	assert.Equal(t, "must be one of: todo, in_progress, done", verr.Fields[2].Reason)
	assert.Equal(t, "must be greater than 0", verr.Fields[3].Reason)
	assert.Equal(t, "email: must be a valid email address", err.Error())
}

func TestField(t *testing.T) {
	err := Field("project_id", "must be a positive integer")
	assert.EqualError(t, err, "project_id: must be a positive integer")
}

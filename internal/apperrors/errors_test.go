package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New(NoResponses, "learner has no responses")
	assert.Equal(t, "no_responses: learner has no responses", e.Error())
}

func TestAppError_Is(t *testing.T) {
	e1 := New(EmptyExam, "exam A")
	e2 := New(EmptyExam, "exam B")
	e3 := New(InvalidThreshold, "bad tau")

	assert.True(t, errors.Is(e1, e2), "same kind should match regardless of message")
	assert.False(t, errors.Is(e1, e3), "different kind should not match")
	assert.False(t, errors.Is(e1, errors.New("plain error")))
}

func TestHandleError(t *testing.T) {
	assert.Nil(t, HandleError(nil, "anything"))

	wrapped := HandleError(errors.New("boom"), "")
	assert.Equal(t, Kind("internal_error"), wrapped.Kind)
	assert.Equal(t, "boom", wrapped.Message)

	original := New(UnknownItem, "item 42")
	assert.Same(t, original, HandleError(original, "ignored"))
}

func TestJoin(t *testing.T) {
	assert.Nil(t, Join())
	assert.Nil(t, Join(nil, nil))

	joined := Join(New(MalformedRecord, "row 1"), errors.New("row 2"), nil)
	assert.Equal(t, MalformedRecord, joined.Kind)
	assert.Contains(t, joined.Message, "row 1")
	assert.Contains(t, joined.Message, "row 2")
}

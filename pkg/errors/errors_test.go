package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapWithCode(t *testing.T) {
	assert.NoError(t, WrapWithCode(nil, CodeInvalidInput, "ignored"))

	err := WrapWithCode(ErrInvalidInput, CodeInvalidInput, "bad option")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "bad option: invalid input", err.Error())
	assert.Equal(t, CodeInvalidInput, GetCode(fmt.Errorf("outer: %w", err)))
	assert.Empty(t, GetCode(errors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, "Please provide a valid Instagram post, reel, or IGTV URL.", UserMessage(InvalidURL("x")))

	notFound := NotFound("ABC", "graphql: no data")
	assert.True(t, IsNotFound(notFound))
	assert.NotContains(t, UserMessage(notFound), "graphql")
	assert.Contains(t, notFound.Error(), "graphql: no data")

	assert.True(t, IsMediaUnavailable(MediaUnavailable(2, "no video url")))
	assert.Equal(t, "Download URL not available for this media.", UserMessage(MediaUnavailable(0, "x")))

	invalid := WrapWithCode(ErrInvalidInput, CodeInvalidInput, "unknown option")
	assert.Equal(t, invalid.Error(), UserMessage(invalid))
	assert.Equal(t, "Something went wrong, please try again later.", UserMessage(errors.New("boom")))
}

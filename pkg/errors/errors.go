package errors

import (
	"errors"
	"fmt"
)

// Error codes surfaced to callers of the resolver and the download selector.
const (
	CodeInvalidURL       = "invalid_url"
	CodeNotFound         = "not_found"
	CodeMediaUnavailable = "media_unavailable"
	CodeInvalidInput     = "invalid_input"
)

var (
	ErrInvalidURL       = errors.New("invalid instagram url")
	ErrNotFound         = errors.New("content not found")
	ErrMediaUnavailable = errors.New("media unavailable")
	ErrInvalidInput     = errors.New("invalid input")
)

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// InvalidURL reports a URL from which no shortcode could be extracted.
func InvalidURL(rawURL string) error {
	return WrapWithCode(ErrInvalidURL, CodeInvalidURL, fmt.Sprintf("cannot extract shortcode from %q", rawURL))
}

// NotFound reports that every strategy was exhausted. diagnostic is meant for logs only.
func NotFound(shortcode, diagnostic string) error {
	return WrapWithCode(ErrNotFound, CodeNotFound, fmt.Sprintf("unable to fetch %s (%s)", shortcode, diagnostic))
}

// MediaUnavailable reports a media item with nothing downloadable.
func MediaUnavailable(index int, reason string) error {
	return WrapWithCode(ErrMediaUnavailable, CodeMediaUnavailable, fmt.Sprintf("media %d: %s", index, reason))
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a message safe to show to end users. Diagnostics
// carried by NotFound are deliberately left out.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsInvalidURL(err):
		return "Please provide a valid Instagram post, reel, or IGTV URL."
	case IsNotFound(err):
		return "Unable to fetch Instagram content. The post may be private or deleted."
	case IsMediaUnavailable(err):
		return "Download URL not available for this media."
	case errors.Is(err, ErrInvalidInput):
		return err.Error()
	default:
		return "Something went wrong, please try again later."
	}
}

func IsInvalidURL(err error) bool {
	return errors.Is(err, ErrInvalidURL)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsMediaUnavailable(err error) bool {
	return errors.Is(err, ErrMediaUnavailable)
}

// Package httpguard builds coercers over *http.Request and *http.Response
// that fail with an *HTTPError carrying the status code to respond with.
package httpguard

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/zoobzio/coercez"
)

// HTTPError is an error with the HTTP status to send for it.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

// NewHTTPError returns an *HTTPError. A status of 0 means 500.
func NewHTTPError(message string, status int) *HTTPError {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &HTTPError{Status: status, Message: message}
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the status of an *HTTPError in err's chain, 500 for any
// other error, and false for nil.
func StatusCode(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Status != 0 {
		return httpErr.Status, true
	}
	return http.StatusInternalServerError, true
}

// ErrorBody renders err as a JSON-ready {"message": ...} body. The message of
// an *HTTPError in err's chain is used as is.
func ErrorBody(err error) map[string]string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return map[string]string{"message": httpErr.Message}
	}
	return map[string]string{"message": err.Error()}
}

// raise replaces a coercion failure with an *HTTPError that keeps the failure
// as its cause.
func raise[O any](message string, status int) coercez.Fallback[O] {
	return coercez.RaiseWith[O](func(cause error) error {
		httpErr := NewHTTPError(message, status)
		httpErr.Err = cause
		return httpErr
	})
}

// Method passes requests whose method is in methods and fails with 405
// otherwise.
func Method(methods ...string) coercez.Coercer[*http.Request, *http.Request] {
	allowed := coercez.Within(methods...)
	message := fmt.Sprintf("Method must be within [%s]", strings.Join(methods, ", "))
	return coercez.Apply("method", func(r *http.Request) (*http.Request, error) {
		if _, err := allowed.CoerceOr(r.Method, raise[string](message, http.StatusMethodNotAllowed)); err != nil {
			return r, err
		}
		return r, nil
	})
}

// Content type categories returned by Category.
const (
	CategoryJSON = "json"
	CategoryForm = "form"
	CategoryText = "text"
	CategoryBlob = "blob"
)

// Category classifies a Content-Type header value as json, form, text or blob.
func Category(contentType string) string {
	switch {
	case strings.Contains(contentType, "application/json"):
		return CategoryJSON
	case strings.Contains(contentType, "form"):
		return CategoryForm
	case strings.Contains(contentType, "text"):
		return CategoryText
	}
	return CategoryBlob
}

// ContentTypeCategory passes requests whose Content-Type category is in
// categories and fails with 415 otherwise.
func ContentTypeCategory(categories ...string) coercez.Coercer[*http.Request, *http.Request] {
	allowed := coercez.Within(categories...)
	message := "Content-Type category must be " + conjunction(categories)
	return coercez.Apply("content_type", func(r *http.Request) (*http.Request, error) {
		category := Category(r.Header.Get("Content-Type"))
		if _, err := allowed.CoerceOr(category, raise[string](message, http.StatusUnsupportedMediaType)); err != nil {
			return r, err
		}
		return r, nil
	})
}

// FormOrJSONPost passes POST requests carrying JSON or form data.
var FormOrJSONPost = coercez.To[*http.Request](
	coercez.Instance[*http.Request](),
	Method(http.MethodPost),
	ContentTypeCategory(CategoryJSON, CategoryForm),
)

// conjunction joins items the way English lists are written:
// "a", "a and b", "a, b, and c".
func conjunction(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}

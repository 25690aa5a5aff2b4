package httpguard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zoobzio/coercez"
)

// Middleware returns a gin middleware running the request through guards.
// A failing request is aborted with a JSON ErrorBody: the status of an
// *HTTPError when there is one, 400 for other coercion failures and 500 for
// anything else.
//
//	router.POST("/signup", httpguard.Middleware(httpguard.FormOrJSONPost), signup)
func Middleware(guards ...coercez.Stage) gin.HandlerFunc {
	guard := coercez.To[*http.Request](guards...)
	return func(c *gin.Context) {
		r, err := guard.Coerce(c.Request)
		if err != nil {
			RespondError(c, err)
			return
		}
		c.Request = r
		c.Next()
	}
}

// RespondError aborts c with a JSON ErrorBody for err.
func RespondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), ErrorBody(err))
}

func statusFor(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		status, _ := StatusCode(httpErr)
		return status
	}
	if errors.Is(err, coercez.ErrExpectation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

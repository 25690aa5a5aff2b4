package httpguard

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/coercez"
)

func newRequest(method, contentType, body string) *http.Request {
	r := httptest.NewRequest(method, "/signup", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

func TestStatusCode(t *testing.T) {
	status, ok := StatusCode(errors.New("foo"))
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, status)

	status, ok = StatusCode(NewHTTPError("gone", http.StatusGone))
	assert.True(t, ok)
	assert.Equal(t, http.StatusGone, status)

	_, ok = StatusCode(nil)
	assert.False(t, ok)

	assert.Equal(t, http.StatusInternalServerError, NewHTTPError("x", 0).Status)
}

func TestErrorBody(t *testing.T) {
	assert.Equal(t, map[string]string{"message": "foo"}, ErrorBody(errors.New("foo")))

	wrapped := coercez.Wrap("x", NewHTTPError("not found", http.StatusNotFound))
	assert.Equal(t, map[string]string{"message": "not found"}, ErrorBody(wrapped))
}

func TestMethod(t *testing.T) {
	post := Method(http.MethodPost, http.MethodPut)

	r := newRequest(http.MethodPut, "", "")
	got, err := post.Coerce(r)
	require.NoError(t, err)
	assert.Same(t, r, got)

	_, err = post.Coerce(newRequest(http.MethodGet, "", ""))
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusMethodNotAllowed, httpErr.Status)
	assert.Equal(t, "Method must be within [POST, PUT]", httpErr.Message)
	assert.ErrorIs(t, httpErr, coercez.ErrExpectation)
}

func TestCategory(t *testing.T) {
	for contentType, want := range map[string]string{
		"application/json":                  CategoryJSON,
		"application/json; charset=utf-8":   CategoryJSON,
		"application/x-www-form-urlencoded": CategoryForm,
		"multipart/form-data":               CategoryForm,
		"text/plain":                        CategoryText,
		"application/octet-stream":          CategoryBlob,
		"":                                  CategoryBlob,
	} {
		assert.Equal(t, want, Category(contentType), contentType)
	}
}

func TestContentTypeCategory(t *testing.T) {
	guard := ContentTypeCategory(CategoryJSON, CategoryForm)
	_, err := guard.Coerce(newRequest(http.MethodPost, "text/plain", "x"))
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnsupportedMediaType, httpErr.Status)
	assert.Equal(t, "Content-Type category must be json and form", httpErr.Message)

	assert.Equal(t, "a, b, and c", conjunction([]string{"a", "b", "c"}))
	assert.Equal(t, "a", conjunction([]string{"a"}))
}

func TestFormOrJSONPost(t *testing.T) {
	fails := []*http.Request{
		newRequest(http.MethodGet, "", ""),
		newRequest(http.MethodPut, "application/json", "{}"),
		newRequest(http.MethodPost, "text/plain", "foo: bar"),
		newRequest(http.MethodPost, "application/octet-stream", "\x01\x02"),
	}
	for _, r := range fails {
		assert.False(t, FormOrJSONPost.Test(r), "%s %s", r.Method, r.Header.Get("Content-Type"))
	}
	assert.True(t, FormOrJSONPost.Test(newRequest(http.MethodPost, "application/json", `{"foo":"bar"}`)))
	assert.True(t, FormOrJSONPost.Test(newRequest(http.MethodPost, "form-data", "foo=bar")))
	assert.False(t, FormOrJSONPost.Test("not a request"))
}

func TestReadBody(t *testing.T) {
	header := func(contentType string) http.Header {
		return http.Header{"Content-Type": []string{contentType}}
	}

	got, err := ReadBody(header("application/json"), strings.NewReader(`{"foo":"bar"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"foo": "bar"}, got)

	got, err = ReadBody(header("application/x-www-form-urlencoded"), strings.NewReader(url.Values{"foo": {"bar"}}.Encode()))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"foo": "bar"}, got)

	got, err = ReadBody(header("text/plain"), strings.NewReader("foo: bar"))
	require.NoError(t, err)
	assert.Equal(t, "foo: bar", got)

	got, err = ReadBody(header("application/octet-stream"), strings.NewReader("\x01\x02\x03\x04"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)

	_, err = ReadBody(header("application/json"), strings.NewReader("invalid json string"))
	status, _ := StatusCode(err)
	assert.Equal(t, http.StatusBadRequest, status)

	_, err = ReadBody(header("text/plain"), nil)
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, map[string]string{"foo": "bar"}, http.StatusOK))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"foo":"bar"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, NewHTTPError("not found", http.StatusNotFound), http.StatusOK))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"not found"}`, rec.Body.String())
}

func TestReadResponseError(t *testing.T) {
	explicit := httptest.NewRecorder()
	require.NoError(t, WriteJSON(explicit, NewHTTPError("not found", http.StatusNotFound), 0))
	httpErr := ReadResponseError(explicit.Result())
	assert.Equal(t, "not found", httpErr.Message)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)

	implicit := httptest.NewRecorder()
	implicit.WriteHeader(http.StatusNotFound)
	httpErr = ReadResponseError(implicit.Result())
	assert.Equal(t, "HTTP 404 Error: Not Found", httpErr.Message)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestResponseChecks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/200":
			w.WriteHeader(http.StatusOK)
		case "/301":
			http.Redirect(w, r, "/200", http.StatusMovedPermanently)
		case "/404":
			_ = WriteJSON(w, NewHTTPError("missing", http.StatusNotFound), 0) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	noRedirect := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	get := func(client *http.Client, path string, check coercez.Coercer[*http.Response, *http.Response]) (*http.Response, error) {
		req, err := http.NewRequest(http.MethodGet, server.URL+path, nil)
		require.NoError(t, err)
		resp, err := Do(client, req, check)
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck
			resp.Body.Close()
		}
		return resp, err
	}
	status := func(err error) int {
		code, _ := StatusCode(err)
		return code
	}

	_, err := get(nil, "/200", OK)
	assert.NoError(t, err)
	_, err = get(nil, "/301", OK)
	assert.NoError(t, err, "redirect is followed")
	_, err = get(noRedirect, "/301", OK)
	assert.Equal(t, http.StatusMovedPermanently, status(err))
	_, err = get(nil, "/404", OK)
	assert.Equal(t, http.StatusNotFound, status(err))
	assert.Equal(t, map[string]string{"message": "missing"}, ErrorBody(err))
	_, err = get(nil, "/500", OK)
	assert.Equal(t, http.StatusInternalServerError, status(err))

	_, err = get(noRedirect, "/301", Pass(http.StatusMovedPermanently))
	assert.NoError(t, err)
	_, err = get(nil, "/404", Pass(200, 404))
	assert.NoError(t, err)
	_, err = get(nil, "/500", Pass(200, 404))
	assert.Error(t, err)

	_, err = get(nil, "/404", Below(500))
	assert.NoError(t, err)
	_, err = get(nil, "/500", Below(500))
	assert.Equal(t, http.StatusInternalServerError, status(err))
}

func TestResponseChecksWithoutBody(t *testing.T) {
	_, err := OK.Coerce(&http.Response{StatusCode: http.StatusBadGateway})
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.Status)
	assert.Equal(t, "HTTP 502 Error: Bad Gateway", httpErr.Message)
	assert.NotContains(t, err.Error(), "panic")

	_, err = OK.Coerce(nil)
	assert.ErrorIs(t, err, coercez.ErrExpectation)
	assert.NotContains(t, err.Error(), "panic")
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/signup", Middleware(FormOrJSONPost), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.PUT("/signup", Middleware(FormOrJSONPost), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.POST("/named", Middleware(coercez.Guard("has_id", "a request with an id", func(r *http.Request) bool {
		return r.URL.Query().Get("id") != ""
	})), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	serve := func(r *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, r)
		return rec
	}

	rec := serve(newRequest(http.MethodPost, "application/json", `{}`))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(newRequest(http.MethodPost, "text/plain", "x"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Content-Type category must be json and form", body["message"])

	rec = serve(newRequest(http.MethodPut, "application/json", `{}`))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = serve(httptest.NewRequest(http.MethodPost, "/named", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = serve(httptest.NewRequest(http.MethodPost, "/named?id=1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

package cookie

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	assert.Equal(t, map[string]string{"a": "b", "b": "="}, Parse("a=b;b=%3D"))
	assert.Equal(t, map[string]string{"a": "b c"}, Parse("a= b c ;  empty=; =orphan; flag"))
	assert.Equal(t, map[string]string{"token": "x=y"}, Parse("token=x=y"))
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("bad=%zz"))
}

func TestParseWith(t *testing.T) {
	upper := func(s string) (string, error) {
		return strings.ToUpper(s), nil
	}
	assert.Equal(t, map[string]string{"A": "B"}, ParseWith("a=b", upper))

	failing := func(string) (string, error) {
		return "", errors.New("nope")
	}
	assert.Empty(t, ParseWith("a=b", failing))

	assert.Equal(t, map[string]string{"a": "="}, ParseWith("a=%3D", nil))
}

func TestStringify(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		s, err := Stringify("key", "value", Options{})
		require.NoError(t, err)
		assert.Equal(t, "key=value;samesite=none;secure", s)
	})

	t.Run("Expires And SameSite", func(t *testing.T) {
		insecure := false
		s, err := Stringify("key", "value", Options{
			Expires:  time.Date(2040, 2, 1, 5, 0, 0, 0, time.UTC),
			SameSite: "lax",
			Secure:   &insecure,
		})
		require.NoError(t, err)
		assert.Equal(t, "key=value;expires=Wed, 01 Feb 2040 05:00:00 GMT;samesite=lax", s)
	})

	t.Run("Expires From Millis And String", func(t *testing.T) {
		s, err := Stringify("key", "value", Options{Expires: int64(2211685200000)})
		require.NoError(t, err)
		assert.Contains(t, s, "expires=Wed, 01 Feb 2040 05:00:00 GMT")

		s, err = Stringify("key", "value", Options{Expires: "2040-02-01T05:00:00Z"})
		require.NoError(t, err)
		assert.Contains(t, s, "expires=Wed, 01 Feb 2040 05:00:00 GMT")
	})

	t.Run("Delete", func(t *testing.T) {
		s, err := Stringify("key", "", Options{Expires: time.Now().Add(time.Hour)})
		require.NoError(t, err)
		assert.Equal(t, "key=;expires=Thu, 01 Jan 1970 00:00:00 GMT;samesite=none;secure", s)
	})

	t.Run("All Attributes", func(t *testing.T) {
		secure := true
		s, err := Stringify(" session ", " a b ", Options{
			MaxAge:   3600,
			Domain:   " example.com ",
			Path:     "/",
			SameSite: "strict",
			Secure:   &secure,
			HTTPOnly: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "session=a%20b;max-age=3600;domain=example.com;path=/;samesite=strict;secure;httponly", s)
	})

	t.Run("Unknown SameSite", func(t *testing.T) {
		s, err := Stringify("key", "value", Options{SameSite: "Whatever"})
		require.NoError(t, err)
		assert.Contains(t, s, "samesite=none")
	})

	t.Run("Custom Encoder", func(t *testing.T) {
		s, err := Stringify("key", "a=b", Options{Encoder: func(s string) string { return s }})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(s, "key=a=b;"))
	})

	t.Run("Invalid Key", func(t *testing.T) {
		_, err := Stringify("  ", "value", Options{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("Invalid Expires", func(t *testing.T) {
		_, err := Stringify("key", "value", Options{Expires: "not a date"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidExpires)
	})
}

func TestRoundTrip(t *testing.T) {
	for _, value := range []string{"plain", "with space", "a=b;c", "día", "%25"} {
		s, err := Stringify("k", value, Options{})
		require.NoError(t, err)
		assert.Equal(t, value, Parse(s)["k"], "value %q", value)
	}
}

func TestRequestCookies(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Add("Cookie", "a=b;b=%3D")
	r.Header.Add("Cookie", "c=d")
	assert.Equal(t, map[string]string{"a": "b", "b": "=", "c": "d"}, RequestCookies(r))

	empty := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, RequestCookies(empty))
}

func TestSetResponseCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, SetResponseCookie(rec.Header(), "a", "b", Options{}))
	require.NoError(t, SetResponseCookie(rec.Header(), "b", "=", Options{}))
	assert.Equal(t, []string{"a=b;samesite=none;secure", "b=%3D;samesite=none;secure"}, rec.Header().Values("Set-Cookie"))

	assert.ErrorIs(t, SetResponseCookie(rec.Header(), "", "b", Options{}), ErrInvalidKey)
	assert.Len(t, rec.Header().Values("Set-Cookie"), 2)
}

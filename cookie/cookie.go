// Package cookie parses and serializes HTTP cookie strings with coercez
// pipelines. Keys and values are URL-component encoded, and malformed pairs are
// dropped rather than reported.
package cookie

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/zoobzio/coercez"
)

// Errors returned by Stringify.
var (
	ErrInvalidKey     = errors.New("invalid cookie key")
	ErrInvalidExpires = errors.New("invalid cookie expires")
)

// Decoder decodes a raw cookie key or value.
type Decoder func(string) (string, error)

// Encoder encodes a cookie key or value.
type Encoder func(string) string

// Options holds the attributes of a serialized cookie.
type Options struct {
	// Expires is anything coercez.Dateify accepts: a time.Time, Unix
	// milliseconds or a date string. Nil leaves the attribute out.
	Expires any
	// MaxAge in seconds. Values below 1 leave the attribute out.
	MaxAge int
	Path   string
	Domain string
	// SameSite is "none", "lax" or "strict". Anything else means "none".
	SameSite string
	// Secure defaults to true when nil.
	Secure   *bool
	HTTPOnly bool
	// Encoder defaults to Escape.
	Encoder Encoder
}

// Escape encodes s the way a URI component is encoded: spaces become %20, not +.
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Unescape decodes a URI component. A + is kept as is.
func Unescape(s string) (string, error) {
	return url.PathUnescape(s)
}

var pairSeparator = regexp.MustCompile(`; *`)

// Parse returns the cookies in a Cookie header value, decoded with Unescape.
//
//	cookie.Parse("a=b;b=%3D") // map[a:b b:=]
func Parse(header string) map[string]string {
	return ParseWith(header, Unescape)
}

// ParseWith is Parse with a custom decoder. Pairs whose key or value is blank
// after decoding and trimming, or fails to decode, are dropped.
func ParseWith(header string, decode Decoder) map[string]string {
	if decode == nil {
		decode = Unescape
	}
	sanitize := coercez.To[string](
		coercez.Apply("decode", func(s string) (string, error) {
			return decode(s)
		}),
		coercez.Trim,
		coercez.NonEmpty,
	)

	cookies := make(map[string]string)
	for _, pair := range pairSeparator.Split(header, -1) {
		raw := strings.SplitN(pair, "=", 2)
		if len(raw) != 2 {
			continue
		}
		key, keyErr := sanitize.Coerce(raw[0])
		value, valueErr := sanitize.Coerce(raw[1])
		if keyErr != nil || valueErr != nil {
			continue
		}
		cookies[key] = value
	}
	return cookies
}

var (
	optional = coercez.To[string](coercez.String, coercez.Trim, coercez.NonEmpty)
	sameSite = coercez.Within("none", "lax", "strict").Or("none")
	secure   = coercez.BooleanOf(true, false, true, true)
)

// Stringify serializes a Set-Cookie value. An empty value deletes the cookie
// by expiring it at the Unix epoch.
//
//	cookie.Stringify("key", "value", cookie.Options{}) // "key=value;samesite=none;secure"
func Stringify(key, value string, opts Options) (string, error) {
	encode := opts.Encoder
	if encode == nil {
		encode = Escape
	}
	encoder := coercez.Transform("encode", func(s string) string {
		return encode(s)
	})

	keyEncoded, err := coercez.To[string](coercez.Trim, coercez.NonEmpty, encoder).
		CoerceOr(key, coercez.Raise[string](fmt.Errorf("%q: %w", key, ErrInvalidKey)))
	if err != nil {
		return "", err
	}
	valueEncoded := coercez.Pipe(coercez.Trim, encoder).Must(value)

	attrs := []string{keyEncoded + "=" + valueEncoded}

	switch {
	case valueEncoded == "":
		attrs = append(attrs, "expires="+time.UnixMilli(0).UTC().Format(http.TimeFormat))
	case coercez.Defined.Test(opts.Expires):
		expires, err := coercez.Dateify.CoerceOr(opts.Expires, coercez.RaiseWith[time.Time](func(cause error) error {
			return fmt.Errorf("%w: %w", ErrInvalidExpires, cause)
		}))
		if err != nil {
			return "", err
		}
		attrs = append(attrs, "expires="+expires.UTC().Format(http.TimeFormat))
	}

	if opts.MaxAge > 0 {
		attrs = append(attrs, "max-age="+strconv.Itoa(opts.MaxAge))
	}
	if domain, err := optional.Coerce(opts.Domain); err == nil {
		attrs = append(attrs, "domain="+domain)
	}
	if path, err := optional.Coerce(opts.Path); err == nil {
		attrs = append(attrs, "path="+path)
	}
	attrs = append(attrs, "samesite="+sameSite.Must(opts.SameSite))
	if secure.Must(opts.Secure) {
		attrs = append(attrs, "secure")
	}
	if coercez.Boolean.Must(opts.HTTPOnly) {
		attrs = append(attrs, "httponly")
	}
	return strings.Join(attrs, ";"), nil
}

// RequestCookies parses every Cookie header of r.
func RequestCookies(r *http.Request) map[string]string {
	return Parse(strings.Join(r.Header.Values("Cookie"), "; "))
}

// SetResponseCookie appends a Set-Cookie header built by Stringify.
func SetResponseCookie(h http.Header, key, value string, opts Options) error {
	cookie, err := Stringify(key, value, opts)
	if err != nil {
		return err
	}
	h.Add("Set-Cookie", cookie)
	return nil
}

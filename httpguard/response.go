package httpguard

import (
	"net/http"
	"slices"

	"github.com/zoobzio/coercez"
)

func responseCheck(name coercez.Name, pass func(status int) bool) coercez.Coercer[*http.Response, *http.Response] {
	return coercez.Apply(name, func(resp *http.Response) (*http.Response, error) {
		if resp == nil {
			return nil, coercez.NewError(resp, "an HTTP response")
		}
		if pass(resp.StatusCode) {
			return resp, nil
		}
		if resp.Body != nil {
			defer resp.Body.Close()
		}
		return resp, ReadResponseError(resp)
	})
}

// OK passes responses with a 2xx status. Other responses fail with the
// *HTTPError built by ReadResponseError, and their body is closed.
var OK = responseCheck("ok", func(status int) bool {
	return status >= 200 && status < 300
})

// Below passes responses whose status is lower than status.
func Below(status int) coercez.Coercer[*http.Response, *http.Response] {
	return responseCheck("below", func(code int) bool {
		return code < status
	})
}

// Pass passes responses whose status is one of statuses.
func Pass(statuses ...int) coercez.Coercer[*http.Response, *http.Response] {
	return responseCheck("pass", func(code int) bool {
		return slices.Contains(statuses, code)
	})
}

// Do sends req with client, which defaults to http.DefaultClient, and runs the
// response through check.
//
//	resp, err := httpguard.Do(nil, req, httpguard.Pass(200, 404))
func Do(client *http.Client, req *http.Request, check coercez.Coercer[*http.Response, *http.Response]) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	return check.Coerce(resp)
}

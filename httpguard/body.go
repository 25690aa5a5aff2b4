package httpguard

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ReadBody reads body according to the Content-Type category of header:
// JSON is decoded into an any, forms into a map[string]string holding the
// first value of each field, text into a string and anything else into a
// []byte.
func ReadBody(header http.Header, body io.Reader) (any, error) {
	if body == nil {
		return nil, NewHTTPError("missing body", http.StatusBadRequest)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	switch Category(header.Get("Content-Type")) {
	case CategoryJSON:
		var payload any
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, &HTTPError{Status: http.StatusBadRequest, Message: "invalid JSON body", Err: err}
		}
		return payload, nil
	case CategoryForm:
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, &HTTPError{Status: http.StatusBadRequest, Message: "invalid form body", Err: err}
		}
		form := make(map[string]string, len(values))
		for key := range values {
			form[key] = values.Get(key)
		}
		return form, nil
	case CategoryText:
		return string(raw), nil
	}
	return raw, nil
}

// WriteJSON writes payload as a JSON response. An error payload is written as
// ErrorBody with the status from StatusCode; status is used otherwise.
func WriteJSON(w http.ResponseWriter, payload any, status int) error {
	var body any = payload
	if err, ok := payload.(error); ok && err != nil {
		status, _ = StatusCode(err)
		body = ErrorBody(err)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}

// ReadResponseError builds an *HTTPError from a failed response, taking the
// message from a JSON {"message": ...} body when there is one. The body is
// consumed.
func ReadResponseError(resp *http.Response) *HTTPError {
	var payload struct {
		Message string `json:"message"`
	}
	if resp.Body != nil {
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			payload.Message = ""
		}
	}
	if payload.Message != "" {
		return NewHTTPError(payload.Message, resp.StatusCode)
	}
	message := fmt.Sprintf("HTTP %d Error", resp.StatusCode)
	if text := http.StatusText(resp.StatusCode); text != "" {
		message += ": " + text
	}
	return NewHTTPError(message, resp.StatusCode)
}

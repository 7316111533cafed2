package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// DecodeJSON decodes the request body into v. It rejects empty bodies
// and unknown fields so malformed payloads fail before validation runs.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}

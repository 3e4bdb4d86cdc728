package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrorResponse is the JSON body written by [WriteError].
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON serializes the given data to JSON and writes it to the HTTP response.
//
// It sets the "Content-Type" header to "application/json" and writes
// the provided HTTP status code before sending the response body.
//
// If marshaling fails, it responds with 500 Internal Server Error
// and returns a wrapped error.
//
// Example usage:
//
//	WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// WriteError writes err as an [ErrorResponse] with the given status.
func WriteError(w http.ResponseWriter, err error, statusCode int) (int, error) {
	message := http.StatusText(statusCode)
	if err != nil {
		message = err.Error()
	}
	return WriteJSON(w, ErrorResponse{Error: message}, statusCode)
}

// DecodeJSON decodes a request body into v. An empty body is reported as
// io.EOF wrapped into the returned error.
func DecodeJSON(body io.Reader, v any) error {
	if body == nil {
		return fmt.Errorf("error decoding request body: %w", io.EOF)
	}
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("error decoding request body: %w", io.EOF)
		}
		return fmt.Errorf("error decoding request body: %w", err)
	}
	return nil
}

/*
Package resp builds and writes the uniform JSON envelope returned by every endpoint.

	{ "status": <int>, "message": <string>, "data": <T|null> }

The HTTP status line always mirrors the envelope's status field.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"convlo/internal/pkg/errs"
	"convlo/internal/pkg/logx"
)

// ContentType is the media type of every response body.
const ContentType = "application/json; charset=utf-8"

// Envelope is the only top-level response shape. Data is rendered as null when absent.
type Envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Success wraps data in a 200 envelope.
func Success[T any](message string, data T) Envelope[T] {
	return Envelope[T]{Status: http.StatusOK, Message: message, Data: data}
}

// Error builds an envelope without payload.
func Error(status int, message string) Envelope[any] {
	return Envelope[any]{Status: status, Message: message}
}

// FromError converts a CustomError into an envelope.
func FromError(customErr *errs.CustomError) Envelope[any] {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}
	return Error(customErr.Status, customErr.Message)
}

// Write serializes env and uses its status as the HTTP status.
func Write[T any](w http.ResponseWriter, r *http.Request, env Envelope[T]) {
	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")

	body, err := json.Marshal(env)
	if err != nil {
		logx.Ctx(r.Context()).Error().
			Err(err).
			Int("http_status", env.Status).
			Msg("error encoding JSON response")

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(env.Status)
	w.Write(body)
}

// RespondSuccess writes a 200 envelope.
func RespondSuccess[T any](w http.ResponseWriter, r *http.Request, message string, data T) {
	Write(w, r, Success(message, data))
}

// RespondError writes the envelope for a CustomError.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	Write(w, r, FromError(customErr))
}

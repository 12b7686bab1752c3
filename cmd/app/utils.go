package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

const maxBodyBytes = 1 << 20

type envelope map[string]any

var errEmptyBody = errors.New("request body must not be empty")

func (app *application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}

	for key, values := range headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(js, '\n'))

	return nil
}

// parseJSON decodes exactly one JSON value from the body into dst. Unknown fields are ignored.
func (app *application) parseJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	if err := dec.Decode(dst); err != nil {
		return describeDecodeError(err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must only contain a single JSON value")
	}

	return nil
}

// describeDecodeError turns decoder failures into messages fit for a 400 response.
func describeDecodeError(err error) error {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		invalidErr  *json.InvalidUnmarshalError
		maxBytesErr *http.MaxBytesError
	)

	switch {
	case errors.Is(err, io.EOF):
		return errEmptyBody
	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("request body contains badly-formed JSON")
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("request body contains badly-formed JSON (at character %d)", syntaxErr.Offset)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Errorf("request body contains an invalid value for the %q field", typeErr.Field)
	case errors.As(err, &typeErr):
		return fmt.Errorf("request body contains incorrect JSON type (at character %d)", typeErr.Offset)
	case errors.As(err, &maxBytesErr):
		return fmt.Errorf("request body must not be larger than %d bytes", maxBytesErr.Limit)
	case errors.As(err, &invalidErr):
		// dst was not a non-nil pointer
		panic(err)
	default:
		return err
	}
}

func (app *application) readIDParam(r *http.Request, key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// extractTokenFromHeader returns "" unless the header has the form "Bearer <token>".
func (app *application) extractTokenFromHeader(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.Contains(token, " ") {
		return ""
	}

	return token
}

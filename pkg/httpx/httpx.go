// Package httpx holds the few HTTP helpers that github.com/cyclopcam/www doesn't have.
// Panics raised here are www.HTTPError, so www.Handle turns them into responses.
package httpx

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cyclopcam/www"
)

// PanicNotFoundf panics with a 404 Not Found.
func PanicNotFoundf(format string, args ...interface{}) {
	panic(www.HTTPError{Code: http.StatusNotFound, Message: fmt.Sprintf(format, args...)})
}

// Returns the named query value as an int, or defaultValue if the key is absent or empty.
// An explicit zero is returned as zero.
// Panics with a 400 if the value is not an integer.
func QueryInt(r *http.Request, key string, defaultValue int) int {
	v := www.QueryValue(r, key)
	if v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		www.PanicBadRequestf("Must specify an integer for %v", key)
	}
	return i
}

// Returns the named query value as a float32, or defaultValue if the key is absent or empty.
// Panics with a 400 if the value is not a number.
func QueryFloat32(r *http.Request, key string, defaultValue float32) float32 {
	v := www.QueryValue(r, key)
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		www.PanicBadRequestf("Must specify a number for %v", key)
	}
	return float32(f)
}

// SendBytes sends raw content with the given content type
func SendBytes(w http.ResponseWriter, contentType string, content []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Write(content)
}

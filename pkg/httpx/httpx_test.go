package httpx

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/www"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"
)

func TestHelpersInsideHandle(t *testing.T) {
	router := httprouter.New()
	www.Handle(logs.NewTestingLog(t), router, "GET", "/notfound", func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		PanicNotFoundf("Frame '%v' not found", "abc")
	})
	www.Handle(logs.NewTestingLog(t), router, "GET", "/query", func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		www.SendJSON(w, map[string]any{
			"n": QueryInt(r, "n", 7),
			"f": QueryFloat32(r, "f", 0.5),
		})
	})
	www.Handle(logs.NewTestingLog(t), router, "GET", "/bytes", func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		SendBytes(w, "image/jpeg", []byte{0xff, 0xd8})
	})

	get := func(url string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", url, nil))
		return w
	}

	w := get("/notfound")
	require.Equal(t, 404, w.Code)
	require.Contains(t, w.Body.String(), "Frame 'abc' not found")

	require.JSONEq(t, `{"n": 7, "f": 0.5}`, get("/query").Body.String())
	require.JSONEq(t, `{"n": 3, "f": 0.25}`, get("/query?n=3&f=0.25").Body.String())
	require.JSONEq(t, `{"n": 0, "f": 0}`, get("/query?n=0&f=0").Body.String())
	require.Equal(t, 400, get("/query?n=three").Code)
	require.Equal(t, 400, get("/query?f=half").Code)

	w = get("/bytes")
	require.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	require.Equal(t, []byte{0xff, 0xd8}, w.Body.Bytes())
}

func TestQueryFloat32NaN(t *testing.T) {
	// strconv accepts "NaN", so callers that need a bounded value must check for it
	r := httptest.NewRequest("GET", "/?f=NaN", nil)
	require.True(t, math.IsNaN(float64(QueryFloat32(r, "f", 0.5))))
}

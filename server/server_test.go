package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/keyframes/pkg/overlay"
	"github.com/cyclopcam/keyframes/pkg/query"
	"github.com/cyclopcam/keyframes/pkg/storage"
	"github.com/cyclopcam/keyframes/server/config"
	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/require"
)

const catRecord = `{
	"detection_boxes": [[0.1, 0.1, 0.4, 0.4], [0.5, 0.5, 0.9, 0.9]],
	"detection_scores": [0.9, 0.2],
	"detection_class_names": ["/m/01yrx", "/m/0bt9lr"],
	"detection_class_entities": ["Cat", "Dog"]
}`

const dogRecord = `{
	"detection_boxes": [[0.2, 0.2, 0.6, 0.6]],
	"detection_scores": [0.7],
	"detection_class_names": ["/m/0bt9lr"],
	"detection_class_entities": ["Dog"]
}`

const brokenRecord = `{
	"detection_boxes": [[0.2, 0.2, 0.6, 0.6]],
	"detection_scores": [0.7, 0.6],
	"detection_class_names": ["/m/0bt9lr"],
	"detection_class_entities": ["Dog"]
}`

func writeFile(t *testing.T, store storage.Storage, name string, content []byte) {
	require.NoError(t, storage.WriteFile(store, name, bytes.NewReader(content)))
}

func grayJPEG(t *testing.T, width, height int) []byte {
	img := cimg.NewImage(width, height, cimg.PixelFormatRGB)
	for i := range img.Pixels {
		img.Pixels[i] = 128
	}
	jpg, err := cimg.Compress(img, cimg.MakeCompressParams(cimg.Sampling444, 95, 0))
	require.NoError(t, err)
	return jpg
}

func newTestServer(t *testing.T) (*Server, storage.Storage) {
	log := logs.NewTestingLog(t)
	cfg := config.NewConfig()
	cfg.Root = t.TempDir()
	s, err := NewServer(log, cfg)
	require.NoError(t, err)
	store, err := cfg.OpenStorage(log)
	require.NoError(t, err)
	writeFile(t, store, "records/C00/000001.json", []byte(catRecord))
	writeFile(t, store, "records/C00/000002.json", []byte(dogRecord))
	writeFile(t, store, "images/C00/000001.jpg", grayJPEG(t, 200, 200))
	return s, store
}

func get(t *testing.T, s *Server, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", url, nil))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var v T
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestClasses(t *testing.T) {
	s, _ := newTestServer(t)

	require.Equal(t, []string{"Cat", "Dog"}, decode[[]string](t, get(t, s, "/api/classes")))
	require.Equal(t, []string{"Cat"}, decode[[]string](t, get(t, s, "/api/classes?minScore=0.8")))
	// Dog at rank 1 of the first frame scores 0.2, so only the second frame counts
	require.Equal(t, []string{"Cat", "Dog"}, decode[[]string](t, get(t, s, "/api/classes?maxBoxes=1")))
	require.Equal(t, []string{}, decode[[]string](t, get(t, s, "/api/classes?minScore=0.95")))

	counts := decode[[]query.ClassCount](t, get(t, s, "/api/classes?counts=1&minScore=0.1"))
	require.Equal(t, []query.ClassCount{{ClassEntity: "Cat", Frames: 1}, {ClassEntity: "Dog", Frames: 2}}, counts)

	// An explicit zero examines no detections at all
	require.Equal(t, []string{}, decode[[]string](t, get(t, s, "/api/classes?maxBoxes=0")))
	require.Equal(t, []query.ClassCount{}, decode[[]query.ClassCount](t, get(t, s, "/api/classes?maxBoxes=0&counts=1")))

	require.Equal(t, http.StatusBadRequest, get(t, s, "/api/classes?maxBoxes=abc").Code)
	require.Equal(t, http.StatusBadRequest, get(t, s, "/api/classes?maxBoxes=-1").Code)
	require.Equal(t, http.StatusBadRequest, get(t, s, "/api/classes?minScore=2").Code)
	require.Equal(t, http.StatusBadRequest, get(t, s, "/api/classes?minScore=NaN").Code)
	require.Equal(t, http.StatusBadRequest, get(t, s, "/api/overlay/C00/000001?minScore=NaN").Code)
}

func TestFrames(t *testing.T) {
	s, _ := newTestServer(t)

	require.Equal(t, []string{"C00/000001", "C00/000002"}, decode[[]string](t, get(t, s, "/api/frames?class=Dog")))
	require.Equal(t, []string{"C00/000001"}, decode[[]string](t, get(t, s, "/api/frames?class=Cat")))
	require.Equal(t, []string{}, decode[[]string](t, get(t, s, "/api/frames?class=Horse")))
	require.Equal(t, http.StatusBadRequest, get(t, s, "/api/frames").Code)
}

func TestRecord(t *testing.T) {
	s, store := newTestServer(t)

	raw := decode[map[string]any](t, get(t, s, "/api/record/C00/000002"))
	require.Equal(t, []any{"Dog"}, raw["detection_class_entities"])

	require.Equal(t, http.StatusNotFound, get(t, s, "/api/record/C00/999999").Code)

	writeFile(t, store, "records/C00/000003.json", []byte(brokenRecord))
	w := get(t, s, "/api/record/C00/000003")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "lengths differ")

	// A malformed record poisons corpus queries too
	require.Equal(t, http.StatusBadRequest, get(t, s, "/api/classes").Code)
}

func TestOverlay(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(t, s, "/api/overlay/C00/000001")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	img, err := cimg.Decompress(w.Body.Bytes())
	require.NoError(t, err)
	require.Equal(t, 200, img.Width)
	require.Equal(t, 200, img.Height)

	// Left edge of the cat box at (20,20)-(80,80), below its label
	expect := overlay.ColorForClass("Cat").RGBA
	p := img.Pixels[70*img.Stride+20*img.NChan():]
	require.InDelta(t, int(expect.R), int(p[0]), 60)
	require.InDelta(t, int(expect.G), int(p[1]), 60)
	require.InDelta(t, int(expect.B), int(p[2]), 60)

	// Record exists, but image does not
	require.Equal(t, http.StatusNotFound, get(t, s, "/api/overlay/C00/000002").Code)
	require.Equal(t, http.StatusNotFound, get(t, s, "/api/overlay/C00/999999").Code)
}

func TestOverlayRateLimit(t *testing.T) {
	s, _ := newTestServer(t)
	s.Config.OverlayRateLimit = 2
	router := s.Router()
	codes := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/overlay/C00/000001", nil))
		codes = append(codes, w.Code)
	}
	require.Equal(t, []int{200, 200, http.StatusTooManyRequests}, codes)
}

func TestShutdownBeforeListen(t *testing.T) {
	s, _ := newTestServer(t)
	require.NoError(t, s.Shutdown(context.Background()))

	done := make(chan error, 1)
	go func() { done <- s.ListenHTTP() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ListenHTTP ignored an earlier Shutdown")
	}
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)
	require.Equal(t, http.StatusNotFound, get(t, s, "/api/nothing").Code)
	require.Equal(t, http.StatusBadRequest, get(t, s, "/api/record/").Code)
}

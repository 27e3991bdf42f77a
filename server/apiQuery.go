package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bmharper/cimg/v2"
	"github.com/chewxy/math32"
	"github.com/cyclopcam/keyframes/pkg/httpx"
	"github.com/cyclopcam/keyframes/pkg/nn"
	"github.com/cyclopcam/keyframes/pkg/present"
	"github.com/cyclopcam/keyframes/pkg/query"
	"github.com/cyclopcam/keyframes/pkg/source"
	"github.com/cyclopcam/www"
	"github.com/julienschmidt/httprouter"
)

// Translate source and parse errors into HTTP errors
func checkSource(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, source.ErrMissingResource) {
		httpx.PanicNotFoundf("%v", err)
	} else if errors.Is(err, nn.ErrMalformedRecord) {
		www.PanicBadRequestf("%v", err)
	}
	panic(err)
}

// Read maxBoxes and minScore from the query string, falling back to the configured defaults
func (s *Server) queryParams(r *http.Request) *nn.QueryParams {
	p := s.Config.QueryParams()
	// An explicit maxBoxes=0 examines no detections
	p.MaxBoxes = httpx.QueryInt(r, "maxBoxes", p.MaxBoxes)
	p.MinScore = httpx.QueryFloat32(r, "minScore", p.MinScore)
	if p.MaxBoxes < 0 {
		www.PanicBadRequestf("maxBoxes may not be negative")
	}
	if math32.IsNaN(p.MinScore) || p.MinScore < 0 || p.MinScore > 1 {
		www.PanicBadRequestf("minScore must be between 0 and 1")
	}
	return p
}

func (s *Server) loadCorpus() *query.Corpus {
	corpus, err := query.LoadCorpus(s.Records, nil)
	checkSource(err)
	return corpus
}

// frameID extracts the frame identifier from a catch-all route parameter ("/C00_V0000/000000")
func frameID(params httprouter.Params) string {
	id := strings.TrimPrefix(params.ByName("id"), "/")
	if id == "" {
		www.PanicBadRequestf("Must specify a frame ID")
	}
	return id
}

func (s *Server) loadRecord(id string) *nn.DetectionRecord {
	raw, err := s.Records.GetRecord(id)
	checkSource(err)
	rec, err := nn.Parse(raw)
	checkSource(err)
	return rec
}

func (s *Server) httpClasses(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	p := s.queryParams(r)
	corpus := s.loadCorpus()
	www.CacheNever(w)
	if www.QueryValue(r, "counts") == "1" {
		www.SendJSON(w, query.ClassCounts(corpus, p))
	} else {
		www.SendJSON(w, query.UniqueClasses(corpus, p))
	}
}

func (s *Server) httpFrames(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	classEntity := www.RequiredQueryValue(r, "class")
	corpus := s.loadCorpus()
	www.CacheNever(w)
	www.SendJSON(w, query.FramesContaining(corpus, classEntity))
}

func (s *Server) httpRecord(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	rec := s.loadRecord(frameID(params))
	www.SendJSON(w, rec.ToRaw())
}

func (s *Server) httpOverlay(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	id := frameID(params)
	p := s.queryParams(r)
	rec := s.loadRecord(id)
	img, err := s.Images.GetImage(id)
	checkSource(err)
	img, err = s.Renderer.DrawBoxes(img, rec, p)
	www.Check(err)
	jpg, err := cimg.Compress(img, cimg.MakeCompressParams(cimg.Sampling420, present.DefaultJPEGQuality, 0))
	www.Check(err)
	www.CacheNever(w)
	httpx.SendBytes(w, "image/jpeg", jpg)
}

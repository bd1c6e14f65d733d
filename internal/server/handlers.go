package server

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/url"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mindmap/pkg/buildinfo"
	"github.com/matzehuels/mindmap/pkg/catmap"
	apperrors "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/extract"
	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/pipeline"
)

// =============================================================================
// Request and response bodies
// =============================================================================

type extractRequest struct {
	Text string `json:"text"`
}

type extractResponse struct {
	Map      *catmap.Map      `json:"map"`
	Strategy extract.Strategy `json:"strategy"`
	Cached   bool             `json:"cached"`
}

type layoutResponse struct {
	Layout graph.Layout `json:"layout"`
	Cached bool         `json:"cached"`
}

// renderRequest renders either a category map (central + map) or a layout
// computed earlier.
type renderRequest struct {
	pipeline.Options
	Layout *graph.Layout `json:"layout,omitempty"`
}

// artifact is one rendered output. Text formats are sent verbatim, binary
// formats base64-encoded.
type artifact struct {
	ContentType string `json:"content_type"`
	Encoding    string `json:"encoding"`
	Data        string `json:"data"`
}

type stats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

type renderResponse struct {
	Central   string              `json:"central"`
	Artifacts map[string]artifact `json:"artifacts"`
	Stats     stats               `json:"stats"`
	Cached    bool                `json:"cached"`
}

type generateResponse struct {
	renderResponse
	Model    string           `json:"model"`
	Map      *catmap.Map      `json:"map"`
	Strategy extract.Strategy `json:"strategy"`
	Saved    *savedPaths      `json:"saved,omitempty"`
}

type savedPaths struct {
	Prompt string `json:"prompt,omitempty"`
	Map    string `json:"map,omitempty"`
}

type mapResponse struct {
	Central string      `json:"central"`
	Map     *catmap.Map `json:"map"`
}

var contentTypes = map[string]string{
	graph.FormatSVG:  "image/svg+xml",
	graph.FormatPNG:  "image/png",
	graph.FormatPDF:  "application/pdf",
	graph.FormatJSON: "application/json",
	graph.FormatDOT:  "text/vnd.graphviz",
}

func encodeArtifacts(raw map[string][]byte) map[string]artifact {
	out := make(map[string]artifact, len(raw))
	for format, data := range raw {
		a := artifact{ContentType: contentTypes[format]}
		if format == graph.FormatPNG || format == graph.FormatPDF || !utf8.Valid(data) {
			a.Encoding = "base64"
			a.Data = base64.StdEncoding.EncodeToString(data)
		} else {
			a.Encoding = "utf-8"
			a.Data = string(data)
		}
		out[format] = a
	}
	return out
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "mindmap",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !s.decode(w, r, schemaExtract, &req) {
		return
	}
	m, res, hit, err := s.runner.ExtractWithCacheInfo(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, extractResponse{Map: m, Strategy: res.Strategy, Cached: hit})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if !s.decode(w, r, schemaLayout, &opts) {
		return
	}
	l, hit, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Layout: l, Cached: hit})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, schemaRender, &req) {
		return
	}

	if req.Layout != nil {
		if err := req.Layout.Validate(); err != nil {
			s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid layout"))
			return
		}
		artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), *req.Layout, req.Options)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, renderResponse{
			Central:   req.Layout.Central,
			Artifacts: encodeArtifacts(artifacts),
			Stats:     stats{Nodes: len(req.Layout.Nodes), Edges: len(req.Layout.Edges)},
			Cached:    hit,
		})
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newRenderResponse(req.Central, result))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.GenerateOptions
	if !s.decode(w, r, schemaGenerate, &opts) {
		return
	}
	res, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := generateResponse{
		renderResponse: newRenderResponse(opts.Central, res.Result),
		Model:          res.Model,
		Map:            res.Map,
		Strategy:       res.Strategy,
	}
	if res.PromptPath != "" || res.MapPath != "" {
		resp.Saved = &savedPaths{Prompt: res.PromptPath, Map: res.MapPath}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	if s.runner.Store == nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeUnsupported, "no store configured"))
		return
	}
	names, err := s.runner.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"maps": names})
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	if s.runner.Store == nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeUnsupported, "no store configured"))
		return
	}
	central, err := url.PathUnescape(chi.URLParam(r, "central"))
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "central label"))
		return
	}
	m, err := s.runner.Store.LoadMap(r.Context(), central)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapResponse{Central: central, Map: m})
}

// =============================================================================
// Helpers
// =============================================================================

// decode reads and validates the request body into dst. On failure it writes
// the error response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, schema string, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = apperrors.New(apperrors.ErrCodeInvalidInput, "request body exceeds %d bytes", MaxBodyBytes)
		} else {
			err = apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read request body")
		}
		s.writeError(w, r, err)
		return false
	}
	if err := s.schemas.decode(schema, body, dst); err != nil {
		s.writeError(w, r, err)
		return false
	}
	return true
}

func newRenderResponse(central string, res *pipeline.Result) renderResponse {
	return renderResponse{
		Central:   central,
		Artifacts: encodeArtifacts(res.Artifacts),
		Stats:     stats{Nodes: res.Stats.NodeCount, Edges: res.Stats.EdgeCount},
		Cached:    res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit,
	}
}

// Package api exposes the catchment pipeline over HTTP for UI collaborators.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/alanrrz/catchment-cli/internal/pipeline"
	"github.com/alanrrz/catchment-cli/internal/spatial"
)

// Server handles pipeline HTTP requests.
type Server struct {
	pipeline *pipeline.Pipeline
}

// NewRouter builds the chi router for the pipeline API. CORS is open so a
// browser-hosted drawing UI can drive the pipeline directly.
func NewRouter(p *pipeline.Pipeline) chi.Router {
	s := &Server{pipeline: p}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/sites", s.handleSites)
	r.Post("/catchment", s.handleCatchment)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type siteResponse struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Shards    int     `json:"shards"`
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	resolved, err := s.pipeline.Sites(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	sites := make([]siteResponse, 0, len(resolved))
	for _, rs := range resolved {
		sites = append(sites, siteResponse{
			ID:        rs.ID,
			Label:     rs.Label,
			Latitude:  rs.Latitude,
			Longitude: rs.Longitude,
			Shards:    len(rs.ShardPaths),
		})
	}
	writeJSON(w, http.StatusOK, sites)
}

type catchmentRequest struct {
	Site   string          `json:"site"`
	Shapes json.RawMessage `json:"shapes"`
}

type failedShardResponse struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type catchmentResponse struct {
	Site          string                `json:"site"`
	Filename      string                `json:"filename"`
	RecordsLoaded int                   `json:"records_loaded"`
	RecordsInside int                   `json:"records_inside"`
	FailedShards  []failedShardResponse `json:"failed_shards,omitempty"`
	Rows          any                   `json:"rows"`
}

func (s *Server) handleCatchment(w http.ResponseWriter, r *http.Request) {
	var req catchmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "api: decode request"))
		return
	}
	if req.Site == "" {
		writeError(w, http.StatusBadRequest, eris.New("api: site is required"))
		return
	}

	polygons, err := spatial.FromGeoJSON(req.Shapes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(polygons) == 0 {
		// Zero drawn shapes means no filter requested yet; withhold results
		// rather than answering with an empty set.
		writeError(w, http.StatusUnprocessableEntity, spatial.ErrNoPolygons)
		return
	}

	result, err := s.pipeline.Run(r.Context(), req.Site, polygons)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	resp := catchmentResponse{
		Site:          result.Site.Label,
		Filename:      result.Site.ExportFilename(),
		RecordsLoaded: result.RecordsLoaded,
		RecordsInside: result.RecordsInside,
		Rows:          result.Rows,
	}
	for _, f := range result.FailedShards {
		resp.FailedShards = append(resp.FailedShards, failedShardResponse{
			Path:  f.Path,
			Error: f.Err.Error(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	zap.L().Warn("api request failed", zap.Int("status", status), zap.Error(err))
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

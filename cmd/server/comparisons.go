package main

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Simplici0/comparativas/internal/backend"
	"github.com/Simplici0/comparativas/internal/comparison"
)

const maxRecentLimit = 100

func (s *server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := s.recentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxRecentLimit {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit debe estar entre 1 y 100")
			return
		}
		limit = n
	}

	records, err := s.comparisons.Recent(r.Context(), limit)
	if err != nil {
		writeStoreError(w, err, "list recent comparisons")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *server) handleComparisonCreate(w http.ResponseWriter, r *http.Request) {
	var in comparison.Input
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if in.Luz == nil && in.Gas == nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_record", "faltan los datos de luz o gas")
		return
	}

	result, err := s.comparisons.Submit(r.Context(), in)
	if !comparison.Saved(err) {
		writeStoreError(w, err, "create comparison")
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("uuid", result.Record.UUID).Msg("comparison saved with errors")
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *server) handleComparisonDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.comparisons.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "delete comparison")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleComparisonExport(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	rec, err := s.comparisons.Find(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "find comparison")
		return
	}

	body, filename, err := comparison.Export(rec)
	if err != nil {
		writeStoreError(w, err, "export comparison")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *server) handleResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.comparisons.Results(r.Context(), chi.URLParam(r, "uuid"))
	if errors.Is(err, comparison.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "No hay datos para esta comparativa.")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("build results")
		writeError(w, http.StatusInternalServerError, "internal", "No se pudieron calcular los resultados.")
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "id inválido")
		return 0, false
	}
	return id, true
}

// writeStoreError maps comparison store failures. Anything that is not a
// client mistake is reported as an upstream failure.
func writeStoreError(w http.ResponseWriter, err error, op string) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, comparison.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "La comparativa no existe.")
	case errors.Is(err, comparison.ErrInvalidRecord):
		writeError(w, http.StatusUnprocessableEntity, "invalid_record", err.Error())
	case errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden):
		writeError(w, http.StatusUnauthorized, "unauthorized", "Tu sesión ha caducado. Vuelve a iniciar sesión.")
	default:
		log.Error().Err(err).Msg(op)
		writeError(w, http.StatusBadGateway, "backend_unavailable", "No se pudo contactar con el servidor. Inténtalo de nuevo.")
	}
}

package main

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Simplici0/comparativas/internal/catalog"
)

func (s *server) handleTariffsList(w http.ResponseWriter, r *http.Request) {
	tariffs, err := s.tariffs.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list tariffs")
		writeError(w, http.StatusInternalServerError, "internal", "No se pudieron cargar las tarifas.")
		return
	}
	writeJSON(w, http.StatusOK, tariffs)
}

func (s *server) handleTariffCreate(w http.ResponseWriter, r *http.Request) {
	var t catalog.Tariff
	if err := decodeJSON(w, r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	created, err := s.tariffs.Create(r.Context(), t)
	if errors.Is(err, catalog.ErrInvalidTariff) {
		writeError(w, http.StatusUnprocessableEntity, "invalid_tariff", err.Error())
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("create tariff")
		writeError(w, http.StatusInternalServerError, "internal", "No se pudo crear la tarifa.")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleTariffSetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var body struct {
		Active *bool `json:"active"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if body.Active == nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "active es requerido")
		return
	}

	err := s.tariffs.SetActive(r.Context(), id, *body.Active)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "La tarifa no existe.")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("update tariff")
		writeError(w, http.StatusInternalServerError, "internal", "No se pudo actualizar la tarifa.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

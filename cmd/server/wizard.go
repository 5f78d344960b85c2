package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Simplici0/comparativas/internal/comparison"
	"github.com/Simplici0/comparativas/internal/wizard"
)

const submitFailedMessage = "No se pudo guardar la comparativa. Revisa tu conexión e inténtalo de nuevo."

type actionResponse struct {
	Wizard     *wizard.View             `json:"wizard,omitempty"`
	Submitted  bool                     `json:"submitted"`
	Submission *comparison.SubmitResult `json:"submission,omitempty"`
	ResultsURL string                   `json:"resultsUrl,omitempty"`
}

func (s *server) handleWizardCreate(w http.ResponseWriter, r *http.Request) {
	id, state := s.sessions.Create()
	view := state.View(id)
	writeJSON(w, http.StatusCreated, view)
}

func (s *server) handleWizardGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.sessions.Get(id)
	if err != nil {
		writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state.View(id))
}

func (s *server) handleWizardAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var action wizard.Action
	if err := decodeJSON(w, r, &action); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	state, effect, err := s.sessions.Apply(id, action)
	if err != nil {
		writeWizardError(w, err)
		return
	}

	view := state.View(id)
	if effect != wizard.EffectSubmit {
		writeJSON(w, http.StatusOK, actionResponse{Wizard: &view})
		return
	}

	result, err := s.comparisons.Submit(r.Context(), state.Input())
	if !comparison.Saved(err) {
		log.Error().Err(err).Str("session", id).Msg("submit comparison")
		writeError(w, http.StatusBadGateway, "submit_failed", submitFailedMessage)
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("uuid", result.Record.UUID).Msg("comparison saved with errors")
	}

	s.sessions.Delete(id)
	resp := actionResponse{
		Submitted:  true,
		Submission: &result,
	}
	if !errors.Is(err, comparison.ErrHandoffFailed) {
		resp.ResultsURL = "/api/resultados/" + result.Record.UUID
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *server) handleWizardUndo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.sessions.Undo(id)
	if err != nil {
		writeWizardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state.View(id))
}

func (s *server) handleWizardDelete(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func writeWizardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wizard.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", "La sesión del asistente no existe o ha caducado.")
	case errors.Is(err, wizard.ErrNothingToUndo):
		writeError(w, http.StatusConflict, "nothing_to_undo", "No hay cambios que deshacer.")
	case errors.Is(err, wizard.ErrUnknownAction):
		writeError(w, http.StatusBadRequest, "unknown_action", err.Error())
	case errors.Is(err, wizard.ErrInvalidValue),
		errors.Is(err, wizard.ErrIndexOutOfRange),
		errors.Is(err, wizard.ErrNotDecisionStep),
		errors.Is(err, wizard.ErrWrongStep):
		writeError(w, http.StatusUnprocessableEntity, "invalid_action", err.Error())
	default:
		log.Error().Err(err).Msg("wizard action")
		writeError(w, http.StatusInternalServerError, "internal", "Error interno.")
	}
}

package http

import (
	"net/http"

	"fintrack/internal/advice"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

type adviceRequestBody struct {
	Query string `json:"query"`
}

// adviceFailureBody is the 500 response for a stored query whose
// generation failed. The record comes back so the client can show the
// query as pending.
type adviceFailureBody struct {
	Message       string             `json:"message"`
	AdviceRequest core.AdviceRequest `json:"adviceRequest"`
}

func (s *Server) handleListAdvice(w http.ResponseWriter, r *http.Request) {
	requests, err := s.advisor.History(r.Context(), s.currentUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if requests == nil {
		requests = []core.AdviceRequest{}
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleCreateAdvice(w http.ResponseWriter, r *http.Request) {
	var body adviceRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	in := core.AdviceInput{UserID: s.currentUserID(r), Query: body.Query}
	if err := in.Validate(); err != nil {
		writeError(w, err)
		return
	}

	req, err := s.advisor.Ask(r.Context(), in)
	if err != nil {
		if req.ID == 0 {
			// The query itself was never stored.
			writeError(w, err)
			return
		}
		// Generation failed after the record was stored; return the
		// pending record with the failure.
		log.FromContext(r.Context()).Warn("Returning pending advice request",
			log.FieldAdviceID, req.ID,
			log.FieldError, err)
		writeJSON(w, http.StatusInternalServerError, adviceFailureBody{
			Message:       advice.Fallback,
			AdviceRequest: req,
		})
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sandevgo/recall/internal/backlog"
	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/internal/service/trainer"
	"github.com/sandevgo/recall/pkg/log"
)

const maxBodyBytes = 1 << 12

type itemResponse struct {
	ID             string          `json:"id"`
	Question       json.RawMessage `json:"question"`
	MemoryStrength int             `json:"memoryStrength"`
	Correct        int             `json:"correct"`
	Incorrect      int             `json:"incorrect"`
}

func newItemResponse(it backlog.Item) itemResponse {
	return itemResponse{
		ID:             it.ID,
		Question:       it.Content,
		MemoryStrength: it.MemoryStrength,
		Correct:        it.CorrectCount,
		Incorrect:      it.IncorrectCount,
	}
}

type answerRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getQuestion(w http.ResponseWriter, r *http.Request, learnerID string) {
	item, err := s.trainer.Question(r.Context(), learnerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newItemResponse(item))
}

func (s *Server) resetProgress(w http.ResponseWriter, r *http.Request, learnerID string) {
	_, err := s.trainer.Reset(r.Context(), learnerID)
	// an empty pool still resets the learner
	if err != nil && !errors.Is(err, backlog.ErrEmptyBacklog) {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusResetContent)
}

func (s *Server) postAnswer(w http.ResponseWriter, r *http.Request, learnerID string) {
	var req answerRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			writeServiceError(w, r, backlog.ErrInvalidAnswerType)
			return
		}
		writeError(w, http.StatusBadRequest, "BadRequest", "request body must be a JSON object")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		writeServiceError(w, r, backlog.ErrInvalidAnswerType)
		return
	}

	item, err := s.trainer.Answer(r.Context(), learnerID, *req.Correct)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newItemResponse(item))
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request, learnerID string) {
	p, err := s.trainer.Progress(r.Context(), learnerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if p.NeedImprove == nil {
		p.NeedImprove = []backlog.WeaknessEntry{}
	}
	if p.Records == nil {
		p.Records = []core.Record{}
	}
	writeJSON(w, http.StatusOK, p)
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, backlog.ErrInvalidAnswerType):
		writeError(w, http.StatusUnprocessableEntity, "InvalidAnswerType", "correct must be a boolean")
	case errors.Is(err, backlog.ErrEmptyBacklog):
		writeError(w, http.StatusNotFound, "EmptyBacklog", "there are no questions to practice")
	case errors.Is(err, trainer.ErrUnknownLearner):
		writeError(w, http.StatusNotFound, "UnknownUser", "reset progress to start practicing")
	case errors.Is(err, core.ErrConflict):
		writeError(w, http.StatusConflict, "Conflict", "concurrent update, try again")
	case errors.Is(err, backlog.ErrStateCorrupted):
		log.FromCtx(r.Context()).Error().Err(err).Msg("corrupted learner state")
		writeError(w, http.StatusInternalServerError, "StateCorrupted", "stored progress is corrupted")
	default:
		log.FromCtx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal", "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

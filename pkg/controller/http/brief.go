package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/brieflab/briefd/pkg/domain/model"
	"github.com/brieflab/briefd/pkg/domain/types"
	"github.com/brieflab/briefd/pkg/service/briefgen"
	"github.com/brieflab/briefd/pkg/usecase"
	"github.com/brieflab/briefd/pkg/utils/errutil"
	"github.com/brieflab/briefd/pkg/utils/safe"
)

type createBriefRequest struct {
	SourceText      string `json:"source_text"`
	ClientSessionID string `json:"client_session_id"`
}

type healthResponse struct {
	Status        string `json:"status"`
	Backend       string `json:"backend"`
	LLMConfigured bool   `json:"llm_configured"`
}

// statusFromError maps the error taxonomy onto HTTP status codes:
// client fault 400, missing LLM config 503, dependency fault 502, unknown
// brief (or other session's brief) 404, everything else 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, briefgen.ErrUpstream), errors.Is(err, briefgen.ErrParseFailure):
		return http.StatusBadGateway
	case errors.Is(err, model.ErrBriefNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	safe.Write(r.Context(), w, data)
}

func createBriefHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBriefRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(usecase.ErrInvalidInput, "request body must be JSON", goerr.V("cause", err.Error())),
				http.StatusBadRequest)
			return
		}

		result, err := uc.Brief.CreateBrief(r.Context(), types.SessionID(req.ClientSessionID), req.SourceText)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
			return
		}

		// A duplicate hit returns the previously stored brief with 200
		// instead of 201.
		statusCode := http.StatusCreated
		if result.Existing {
			statusCode = http.StatusOK
		}
		writeJSON(w, r, statusCode, result.Brief)
	}
}

func listBriefsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := types.SessionID(r.URL.Query().Get("client_session_id"))

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w,
					goerr.Wrap(usecase.ErrInvalidInput, "limit must be an integer"),
					http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		summaries, err := uc.Brief.ListBriefs(r.Context(), sessionID, limit)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
			return
		}

		writeJSON(w, r, http.StatusOK, summaries)
	}
}

func getBriefHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := types.SessionID(r.URL.Query().Get("client_session_id"))
		briefID := types.BriefID(chi.URLParam(r, "briefID"))

		brief, err := uc.Brief.GetBrief(r.Context(), sessionID, briefID)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
			return
		}

		writeJSON(w, r, http.StatusOK, brief)
	}
}

func deleteBriefHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := types.SessionID(r.URL.Query().Get("client_session_id"))
		briefID := types.BriefID(chi.URLParam(r, "briefID"))

		if err := uc.Brief.DeleteBrief(r.Context(), sessionID, briefID); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusFromError(err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func healthHandler(uc *usecase.UseCases, backend string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, healthResponse{
			Status:        "ok",
			Backend:       backend,
			LLMConfigured: uc.LLMConfigured(),
		})
	}
}

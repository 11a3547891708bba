package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-pairing/models"
	"github.com/Dosada05/tournament-pairing/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

type reportResultInput struct {
	ScoreA *int `json:"score_a"`
	ScoreB *int `json:"score_b"`
}

// ListMatchesHandler handles GET /tournaments/{tournamentID}/matches?stage=&cursor=&limit=
func (h *MatchHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var stage *models.MatchStage
	if raw := r.URL.Query().Get("stage"); raw != "" {
		s := models.MatchStage(raw)
		stage = &s
	}
	cursor, err := queryInt(r, "cursor")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	page, err := h.matchService.ListMatches(r.Context(), tournamentID, stage, cursor, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, page, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReportResultHandler handles POST /matches/{matchID}/result
func (h *MatchHandler) ReportResultHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input reportResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.ScoreA == nil || input.ScoreB == nil {
		errorResponse(w, r, http.StatusUnprocessableEntity, map[string]string{
			"score_a": "required",
			"score_b": "required",
		})
		return
	}

	match, err := h.matchService.ReportResult(r.Context(), matchID, *input.ScoreA, *input.ScoreB)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

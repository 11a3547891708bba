package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/tournament-pairing/services"
)

type RoundHandler struct {
	roundService services.RoundService
}

func NewRoundHandler(rs services.RoundService) *RoundHandler {
	return &RoundHandler{roundService: rs}
}

type swissRoundInput struct {
	Round int    `json:"round"`
	Seed  *int64 `json:"seed"`
}

type eliminationRoundInput struct {
	Round int `json:"round"`
}

// GenerateSwissRoundHandler handles POST /tournaments/{tournamentID}/swiss/rounds
func (h *RoundHandler) GenerateSwissRoundHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input swissRoundInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Round < 1 {
		badRequestResponse(w, r, errors.New("round must be a positive integer"))
		return
	}

	result, err := h.roundService.GenerateSwissRound(r.Context(), tournamentID, input.Round, input.Seed)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"round": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceEliminationHandler handles POST /tournaments/{tournamentID}/elimination/rounds
func (h *RoundHandler) AdvanceEliminationHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input eliminationRoundInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Round < 1 {
		badRequestResponse(w, r, errors.New("round must be a positive integer"))
		return
	}

	result, err := h.roundService.AdvanceElimination(r.Context(), tournamentID, input.Round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Finished {
		status = http.StatusOK
	}
	if err := writeJSON(w, status, jsonResponse{"round": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

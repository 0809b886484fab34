package handlers

import (
	"errors"
	"net/http"

	"github.com/username/kabufolio/src/logger"
	"github.com/username/kabufolio/src/models"
	"github.com/username/kabufolio/src/services"
	"github.com/username/kabufolio/src/utils"
)

type PortfolioHandler struct {
	importService services.ImportService
}

func NewPortfolioHandler(service services.ImportService) *PortfolioHandler {
	return &PortfolioHandler{importService: service}
}

// HandleGetPositions returns the per-instrument holdings derived from the
// full transaction history.
func (h *PortfolioHandler) HandleGetPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.importService.Positions()
	if err != nil {
		logger.L.Error("Error computing positions", "error", err)
		utils.SendJSONError(w, "Error computing positions", http.StatusInternalServerError)
		return
	}
	if positions == nil {
		positions = []models.Position{}
	}
	utils.SendJSON(w, positions, http.StatusOK)
}

// HandleGetExposure returns the sector or region breakdown
// (?dimension=sector|region, default sector).
func (h *PortfolioHandler) HandleGetExposure(w http.ResponseWriter, r *http.Request) {
	dimension := r.URL.Query().Get("dimension")
	if dimension == "" {
		dimension = "sector"
	}

	entries, err := h.importService.Exposure(dimension)
	if err != nil {
		if errors.Is(err, services.ErrUnknownDimension) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.L.Error("Error computing exposure", "dimension", dimension, "error", err)
		utils.SendJSONError(w, "Error computing exposure", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.ExposureEntry{}
	}
	utils.SendJSON(w, entries, http.StatusOK)
}

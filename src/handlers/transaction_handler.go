package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/username/kabufolio/src/logger"
	"github.com/username/kabufolio/src/models"
	"github.com/username/kabufolio/src/services"
	"github.com/username/kabufolio/src/utils"
)

type TransactionHandler struct {
	importService services.ImportService
}

func NewTransactionHandler(service services.ImportService) *TransactionHandler {
	return &TransactionHandler{importService: service}
}

// HandleGetTransactions returns ledger transactions, optionally filtered by
// an inclusive trade-date range (?from=YYYY-MM-DD&to=YYYY-MM-DD).
func (h *TransactionHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "from")
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs, err := h.importService.TransactionsByDateRange(from, to)
	if err != nil {
		logger.L.Error("Error retrieving transactions", "error", err)
		utils.SendJSONError(w, "Error retrieving transactions", http.StatusInternalServerError)
		return
	}
	if txs == nil {
		txs = []models.CanonicalTransaction{}
	}
	utils.SendJSON(w, txs, http.StatusOK)
}

// parseDateParam reads an optional YYYY-MM-DD query parameter; absence
// leaves that side of the range open (zero time).
func parseDateParam(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q, expected %s", name, value, models.DateFormat)
	}
	return t, nil
}

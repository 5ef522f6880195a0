package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"expense-journal/internal/models"
	"expense-journal/internal/money"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

const transactionNotFound = "Transaction not found"

type createTransactionRequest struct {
	Amount      *money.Amount `json:"amount"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Tags        []string      `json:"tags"`
}

// parsePaging reads page and limit from the query string. Missing,
// non-numeric and non-positive values fall back to the defaults.
func parsePaging(r *http.Request) (page, limit int) {
	page, limit = defaultPage, defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v >= 1 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v >= 1 {
		limit = min(v, maxLimit)
	}
	return page, limit
}

// ListTransactions returns one page of the user's transactions, newest first.
func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	page, limit := parsePaging(r)

	txs, err := h.store.ListTransactions(r.Context(), user.ID, page, limit)
	if err != nil {
		h.writeServiceError(w, r, err, transactionNotFound, "Error fetching transactions")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"page":         page,
		"limit":        limit,
	})
}

// CreateTransaction records a new transaction for the user.
func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	var req createTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)
	if req.Amount == nil || req.Description == "" || req.Category == "" {
		WriteError(w, http.StatusBadRequest, "Please provide amount, description, and category")
		return
	}

	tx, err := h.store.CreateTransaction(r.Context(), user.ID, models.NewTransaction{
		Amount:      *req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
	})
	if err != nil {
		h.writeServiceError(w, r, err, transactionNotFound, "Error creating transaction")
		return
	}

	writeData(w, http.StatusCreated, map[string]any{"transaction": tx})
}

// GetTransaction returns a single transaction owned by the user.
func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, transactionNotFound)
		return
	}

	tx, err := h.store.GetTransaction(r.Context(), id, user.ID)
	if err != nil {
		h.writeServiceError(w, r, err, transactionNotFound, "Error fetching transaction")
		return
	}

	writeData(w, http.StatusOK, map[string]any{"transaction": tx})
}

// UpdateTransaction applies a partial update. Fields absent from the body
// keep their stored values.
func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, transactionNotFound)
		return
	}

	var patch models.TransactionPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if patch.Description != nil {
		*patch.Description = strings.TrimSpace(*patch.Description)
		if *patch.Description == "" {
			WriteError(w, http.StatusBadRequest, "Description cannot be empty")
			return
		}
	}
	if patch.Category != nil {
		*patch.Category = strings.TrimSpace(*patch.Category)
		if *patch.Category == "" {
			WriteError(w, http.StatusBadRequest, "Category cannot be empty")
			return
		}
	}

	tx, err := h.store.UpdateTransaction(r.Context(), id, user.ID, patch)
	if err != nil {
		h.writeServiceError(w, r, err, transactionNotFound, "Error updating transaction")
		return
	}

	writeData(w, http.StatusOK, map[string]any{"transaction": tx})
}

// DeleteTransaction removes a transaction owned by the user.
func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, ok := pathID(r)
	if !ok {
		WriteError(w, http.StatusNotFound, transactionNotFound)
		return
	}

	tx, err := h.store.DeleteTransaction(r.Context(), id, user.ID)
	if err != nil {
		h.writeServiceError(w, r, err, transactionNotFound, "Error deleting transaction")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Transaction deleted successfully",
		"data":    map[string]any{"transaction": tx},
	})
}

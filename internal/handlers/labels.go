package handlers

import (
	"net/http"
	"strings"
)

type labelRequest struct {
	Name string `json:"name"`
}

// ListCategories returns the user's categories in creation order.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context(), GetUserFromContext(r).ID)
	if err != nil {
		h.writeServiceError(w, r, err, "Category not found", "Error fetching categories")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"categories": categories})
}

// CreateCategory adds a category for the user.
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeLabel(w, r)
	if !ok {
		return
	}

	category, err := h.store.CreateCategory(r.Context(), GetUserFromContext(r).ID, name)
	if err != nil {
		h.writeServiceError(w, r, err, "Category not found", "Error creating category")
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"category": category})
}

// ListTags returns the user's tags in creation order.
func (h *Handlers) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.ListTags(r.Context(), GetUserFromContext(r).ID)
	if err != nil {
		h.writeServiceError(w, r, err, "Tag not found", "Error fetching tags")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"tags": tags})
}

// CreateTag adds a tag for the user.
func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeLabel(w, r)
	if !ok {
		return
	}

	tag, err := h.store.CreateTag(r.Context(), GetUserFromContext(r).ID, name)
	if err != nil {
		h.writeServiceError(w, r, err, "Tag not found", "Error creating tag")
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"tag": tag})
}

func decodeLabel(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req labelRequest
	if !decodeJSON(w, r, &req) {
		return "", false
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		WriteError(w, http.StatusBadRequest, "Name is required")
		return "", false
	}
	return name, true
}

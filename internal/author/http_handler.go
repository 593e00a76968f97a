package author

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	log     *zap.Logger
	maxBody int64
}

func NewHTTPHandler(service *Service, log *zap.Logger, maxBody int64) *HTTPHandler {
	return &HTTPHandler{service: service, log: log, maxBody: maxBody}
}

// List handles GET /authors
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.List(r.Context())
	if err != nil {
		httpx.ServiceError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, authors)
}

// Get handles GET /authors/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid author ID format")
		return
	}

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.ServiceError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

// Create handles POST /authors
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in DTO
	if err := httpx.ReadJSON(w, r, &in, h.maxBody); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.ServiceError(w, r, h.log, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/authors/%d", created.ID))
	httpx.JSON(w, http.StatusCreated, created)
}

// Update handles PUT /authors/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid author ID format")
		return
	}

	var in DTO
	if err := httpx.ReadJSON(w, r, &in, h.maxBody); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if in.ID != id {
		httpx.JSONError(w, http.StatusBadRequest, "ID in path and body mismatch")
		return
	}

	updated, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		httpx.ServiceError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /authors/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid author ID format")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.ServiceError(w, r, h.log, err)
		return
	}
	httpx.NoContent(w)
}

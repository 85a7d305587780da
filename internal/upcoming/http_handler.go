package upcoming

import (
	"encoding/json"
	"net/http"

	domainerrors "authorsite/internal/errors"
	"authorsite/internal/httpx"
	"authorsite/internal/validation"
)

type HTTPHandler struct {
	svc       *Service
	validator *validation.Validator
}

func NewHTTPHandler(svc *Service, v *validation.Validator) *HTTPHandler {
	return &HTTPHandler{svc: svc, validator: v}
}

// List handles GET /v1/upcoming-books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.ListAll(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"total": len(books)})
}

// Get handles GET /v1/upcoming-books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, book, nil)
}

// Create handles POST /v1/admin/upcoming-books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}

	id, err := h.svc.Create(r.Context(), form)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, map[string]string{"id": id})
}

// Update handles PUT /v1/admin/upcoming-books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}

	id, err := h.svc.Update(r.Context(), r.PathValue("id"), form)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]string{"id": id}, nil)
}

// Delete handles DELETE /v1/admin/upcoming-books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]bool{"deleted": deleted}, nil)
}

func (h *HTTPHandler) decodeForm(w http.ResponseWriter, r *http.Request) (FormData, bool) {
	var form FormData
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&form); err != nil {
		httpx.WriteError(w, r, domainerrors.Validation("invalid JSON body"))
		return FormData{}, false
	}
	if err := h.validator.Validate(form); err != nil {
		httpx.WriteError(w, r, err)
		return FormData{}, false
	}
	return form, true
}

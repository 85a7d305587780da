package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

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

// List handles GET /v1/books
// @Summary List catalog books
// @Tags books
// @Produce json
// @Param q query string false "Match title or author"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	books, total, err := h.svc.List(r.Context(), ListQuery{
		Q:      query.Get("q"),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	views := make([]bookView, 0, len(books))
	for _, b := range books {
		views = append(views, viewOf(b))
	}
	httpx.JSONSuccess(w, r, views, map[string]any{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}

// GetByPath handles GET /v1/books/{path}
// @Summary Get a book by its "<slug>-<shortId>" path segment
// @Tags books
// @Produce json
// @Param path path string true "Slug with short id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/books/{path} [get]
func (h *HTTPHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.GetByPath(r.Context(), r.PathValue("path"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, viewOf(b), nil)
}

// Create handles POST /v1/admin/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var nb NewBook
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&nb); err != nil {
		httpx.WriteError(w, r, domainerrors.Validation("invalid JSON body"))
		return
	}
	if err := h.validator.Validate(nb); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	b, err := h.svc.Create(r.Context(), nb)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, viewOf(b))
}

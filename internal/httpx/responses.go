package httpx

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"

	domainerrors "authorsite/internal/errors"
)

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Meta    any  `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   ErrorResponseBody `json:"error"`
	Meta    any               `json:"meta,omitempty"`
}

type ErrorResponseBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func buildMeta(r *http.Request, customMeta map[string]any) any {
	requestID := RequestIDFrom(r)
	if requestID == "" && customMeta == nil {
		return nil
	}
	meta := make(map[string]any, len(customMeta)+1)
	if requestID != "" {
		meta["request_id"] = requestID
	}
	for k, v := range customMeta {
		meta[k] = v
	}
	return meta
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func JSONSuccess(w http.ResponseWriter, r *http.Request, data any, meta map[string]any) {
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: data, Meta: buildMeta(r, meta)})
}

func JSONCreated(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, http.StatusCreated, SuccessResponse{Success: true, Data: data, Meta: buildMeta(r, nil)})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string, details []ErrorDetail) {
	writeJSON(w, statusCode, ErrorResponse{
		Success: false,
		Error: ErrorResponseBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: buildMeta(r, nil),
	})
}

// WriteError maps a domain error to a JSON error response. Server-side
// failures are logged and answered with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domainerrors.Error
	if !domainerrors.As(err, &domainErr) {
		domainErr = domainerrors.Internal("unexpected error", err)
	}

	status := domainErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Printf("request failed: request_id=%s method=%s path=%s code=%s error=%v",
			RequestIDFrom(r), r.Method, r.URL.Path, domainErr.Code, err)
		JSONError(w, r, status, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	JSONError(w, r, status, string(domainErr.Code), domainErr.Message, detailsOf(domainErr.Details))
}

func detailsOf(details any) []ErrorDetail {
	fields, ok := details.(map[string]string)
	if !ok || len(fields) == 0 {
		return nil
	}
	out := make([]ErrorDetail, 0, len(fields))
	for field, msg := range fields {
		out = append(out, ErrorDetail{Field: field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

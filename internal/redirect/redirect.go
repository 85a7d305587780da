// Package redirect turns legacy "?id=" links into permanent redirects to the
// slug-based catalog pages.
package redirect

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"authorsite/internal/catalog"
	domainerrors "authorsite/internal/errors"
	"authorsite/internal/slug"
)

// Namespace is the first path segment of a redirect target.
type Namespace string

const (
	Books      Namespace = "books"
	Multimedia Namespace = "multimedia"
)

// Lookup fetches the id/slug projection of a catalog book.
type Lookup interface {
	GetEntry(ctx context.Context, id string) (catalog.Entry, error)
}

// Response is a transport-neutral redirect reply with a plain-text body.
type Response struct {
	Status   int
	Location string
	Body     string
}

type Resolver struct {
	lookup Lookup
	ns     Namespace
}

func NewResolver(lookup Lookup, ns Namespace) *Resolver {
	return &Resolver{lookup: lookup, ns: ns}
}

// Target returns "/<ns>/<slug>-<first 8 chars of id>".
func Target(ns Namespace, entrySlug, id string) string {
	return "/" + string(ns) + "/" + slug.WithShortID(entrySlug, id)
}

// Resolve answers a redirect request for id. It never returns internal error
// details in the body.
func (r *Resolver) Resolve(ctx context.Context, id string) (resp Response) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Response{Status: http.StatusBadRequest, Body: "Missing required query parameter: id"}
	}

	defer func() {
		if p := recover(); p != nil {
			log.Printf("redirect panic: namespace=%s id=%q panic=%v", r.ns, id, p)
			resp = internalError()
		}
	}()

	entry, err := r.lookup.GetEntry(ctx, id)
	if err != nil {
		switch domainerrors.CodeOf(err) {
		case domainerrors.CodeNotFound, domainerrors.CodeValidation:
			return notFound(id)
		default:
			log.Printf("redirect lookup failed: namespace=%s id=%q error=%v", r.ns, id, err)
			return internalError()
		}
	}
	if strings.TrimSpace(entry.Slug) == "" {
		return notFound(id)
	}

	target := Target(r.ns, entry.Slug, entry.ID)
	return Response{
		Status:   http.StatusMovedPermanently,
		Location: target,
		Body:     "Redirecting to " + target,
	}
}

func notFound(id string) Response {
	return Response{Status: http.StatusNotFound, Body: fmt.Sprintf("No catalog entry found for id %q", id)}
}

func internalError() Response {
	return Response{Status: http.StatusInternalServerError, Body: "Internal server error"}
}

// ServeHTTP reads the id from the query string and writes the plain-text reply.
func (r *Resolver) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	resp := r.Resolve(req.Context(), req.URL.Query().Get("id"))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if resp.Location != "" {
		w.Header().Set("Location", resp.Location)
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write([]byte(resp.Body))
}

package metadatahandler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/veriluxe/certificate-registry/api"
	"github.com/veriluxe/certificate-registry/interfaces"
)

// Handler stores and serves the documents whose content ID is recorded as a
// certificate's metadata hash.
type Handler struct {
	backend interfaces.StorageBackend
	log     *slog.Logger
}

func NewHandler(backend interfaces.StorageBackend, log *slog.Logger) *Handler {
	return &Handler{
		backend: backend,
		log:     log,
	}
}

// RegisterRoutes registers:
//   - POST /api/metadata?type={metadata|media} - Store a document
//   - GET  /api/metadata/{content_id}?type={metadata|media} - Fetch a document
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/metadata", h.HandleStore)
	r.Get("/api/metadata/{content_id}", h.HandleFetch)
}

// HandleStore saves the raw request body and returns its content ID.
//
// URL format: POST /api/metadata?type=metadata
//
// Status codes:
//   - 200 OK: Document stored
//   - 400 Bad Request: Empty body or unknown type
//   - 413 Request Entity Too Large: Body over the configured limit
//   - 500 Internal Server Error: No backend accepted the document
//
//	@Summary	Store a metadata document
//	@Tags		Metadata
//	@Accept		octet-stream
//	@Produce	json
//	@Param		type		query		string	false	"metadata (default) or media"
//	@Param		document	body		string	true	"Document bytes"
//	@Success	200			{object}	api.Envelope[api.MetadataResponse]
//	@Failure	400			{object}	api.Envelope[any]
//	@Router		/api/metadata [post]
func (h *Handler) HandleStore(w http.ResponseWriter, r *http.Request) {
	contentType, err := parseType(r)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		api.WriteError(w, h.log, fmt.Errorf("could not read document: %w", err))
		return
	}
	if len(data) == 0 {
		api.WriteError(w, h.log, api.InvalidInput("document must not be empty"))
		return
	}

	id, err := h.backend.Store(r.Context(), data, contentType)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	h.log.Info("Stored metadata document",
		"contentID", id.String(),
		"type", contentType.String(),
		"size", len(data))

	api.WriteSuccess(w, h.log, api.MetadataResponse{
		ContentID:   id.String(),
		ContentType: contentType.String(),
		Size:        len(data),
		Locations:   []string{h.backend.LocationURI()},
	}, "Document stored")
}

// HandleFetch returns the raw document stored under content_id.
//
// URL format: GET /api/metadata/{content_id}?type=metadata
//
// Status codes:
//   - 200 OK: Document returned as-is
//   - 400 Bad Request: Malformed content ID or unknown type
//   - 404 Not Found: No backend has the document
//
//	@Summary	Fetch a metadata document
//	@Tags		Metadata
//	@Produce	octet-stream
//	@Param		content_id	path		string	true	"Hex SHA-256 of the document"
//	@Param		type		query		string	false	"metadata (default) or media"
//	@Success	200			{string}	string	"Document bytes"
//	@Failure	404			{object}	api.Envelope[any]
//	@Router		/api/metadata/{content_id} [get]
func (h *Handler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	contentType, err := parseType(r)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	id, err := interfaces.NewContentIDFromHex(chi.URLParam(r, "content_id"))
	if err != nil {
		api.WriteError(w, h.log, api.InvalidInput("content_id: %v", err))
		return
	}

	data, err := h.backend.Fetch(r.Context(), id, contentType)
	if err != nil {
		api.WriteError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("ETag", `"`+id.String()+`"`)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if _, err := w.Write(data); err != nil {
		h.log.Error("Failed to write document", "err", err)
	}
}

func parseType(r *http.Request) (interfaces.ContentType, error) {
	contentType, err := interfaces.ParseContentType(r.URL.Query().Get("type"))
	if err != nil {
		return 0, api.InvalidInput("%v", err)
	}
	return contentType, nil
}

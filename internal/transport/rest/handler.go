// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/servicesdumitrustefan92-cmd/store-management/internal/domain"
	"github.com/servicesdumitrustefan92-cmd/store-management/internal/service"
	"github.com/servicesdumitrustefan92-cmd/store-management/pkg/web"
)

type Handler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewHandler creates a new product API handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product service.
// Creating and changing prices require the admin role; reads accept any
// authenticated role. Routes not listed here are denied by the router.
func (h *Handler) RegisterRoutes(r *chi.Mux, authz *web.Authorizer) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.With(authz.Require(web.RoleAdmin)).Post("/", h.Create)

		r.Route("/{sku}", func(r chi.Router) {
			r.With(authz.Require(web.RoleAdmin, web.RoleUser)).Get("/", h.FindBySku)
			r.With(authz.Require(web.RoleAdmin)).Patch("/price", h.ChangePrice)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var createDto service.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&createDto); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		h.respondError(w, r, http.StatusBadRequest, CodeValidationError, "Invalid request",
			[]string{"body: malformed JSON"})
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to create product", "sku", createDto.Sku)
	created, err := h.service.Create(r.Context(), createDto)
	if err != nil {
		h.renderFailure(w, r, mLogger, err, "Error creating product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created", "sku", created.Sku)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// FindBySku retrieves a product by its SKU.
func (h *Handler) FindBySku(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sku := chi.URLParam(r, "sku")

	mLogger.DebugContext(r.Context(), "Received request to find product", "sku", sku)
	found, err := h.service.FindBySku(r.Context(), sku)
	if err != nil {
		h.renderFailure(w, r, mLogger, err, "Error retrieving product")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "sku", found.Sku)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// ChangePrice applies a new price to the product with the given SKU.
func (h *Handler) ChangePrice(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sku := chi.URLParam(r, "sku")

	var priceDto service.PriceChangeDto
	if err := json.NewDecoder(r.Body).Decode(&priceDto); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		h.respondError(w, r, http.StatusBadRequest, CodeValidationError, "Invalid request",
			[]string{"body: malformed JSON"})
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to change price", "sku", sku)
	updated, err := h.service.ChangePrice(r.Context(), sku, priceDto)
	if err != nil {
		h.renderFailure(w, r, mLogger, err, "Error changing product price")
		return
	}
	mLogger.InfoContext(r.Context(), "Price changed", "sku", updated.Sku, "newPrice", updated.Price)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// renderFailure maps a service failure to its API error response. This is the
// single place where internal failures become client-facing codes; anything
// outside the known taxonomy is logged in full and redacted to a 500.
func (h *Handler) renderFailure(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, logMsg string) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logger.WarnContext(r.Context(), "Validation failed", "details", validationErr.Details)
		h.respondError(w, r, http.StatusBadRequest, CodeValidationError, "Invalid request", validationErr.Details)
	case errors.Is(err, domain.ErrProductNotFound):
		logger.WarnContext(r.Context(), "Product not found", "path", r.URL.Path)
		h.respondError(w, r, http.StatusNotFound, CodeProductNotFound, "Product not found", nil)
	case errors.Is(err, domain.ErrSkuAlreadyExists):
		logger.WarnContext(r.Context(), "SKU conflict", "path", r.URL.Path)
		h.respondError(w, r, http.StatusConflict, CodeSkuAlreadyExists, "SKU already exists", nil)
	default:
		logger.ErrorContext(r.Context(), logMsg, "error", err)
		h.respondError(w, r, http.StatusInternalServerError, CodeInternalError, "Unexpected error", nil)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details []string) {
	web.RespondJSON(w, h.loggerWithReqID(r), status,
		newAPIError(status, code, message, r.URL.Path, details))
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}

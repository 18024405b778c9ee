package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/repository"
	"github.com/biniyamagegnehu/Dbuian-Fashion-E-commerce-Website-sub000/internal/service"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Message: message})
}

// handleServiceError translates service and repository errors into the HTTP
// taxonomy: 400 validation/business rule, 401 credentials, 403 role,
// 404 missing. Business messages pass through verbatim.
func handleServiceError(w http.ResponseWriter, err error) {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		respondError(w, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrCartNotFound),
		errors.Is(err, repository.ErrItemNotFound),
		errors.Is(err, repository.ErrReviewNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidSize),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrShippingIncomplete),
		errors.Is(err, service.ErrUnsupportedPayment),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrDuplicateReview),
		errors.Is(err, service.ErrReviewNotAllowed),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidGender),
		errors.Is(err, service.ErrNoSizes),
		errors.Is(err, service.ErrInvalidStock),
		errors.Is(err, service.ErrMissingName),
		errors.Is(err, repository.ErrEmailTaken):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

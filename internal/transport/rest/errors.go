package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/abgdnv/giftshop/internal/cart"
	"github.com/abgdnv/giftshop/internal/catalog"
	"github.com/abgdnv/giftshop/internal/idp"
	"github.com/abgdnv/giftshop/internal/quote"
	"github.com/abgdnv/giftshop/internal/session"
	"github.com/abgdnv/giftshop/internal/wishlist"
	"github.com/abgdnv/giftshop/pkg/web"
	"github.com/go-playground/validator/v10"
)

const codeAuthRequired = "auth_required"

// respondErr maps domain errors to status codes. message overrides the error text when not empty.
func (h *Handler) respondErr(w http.ResponseWriter, r *http.Request, err error, message string) {
	ctx := r.Context()
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		for _, fieldErr := range validationErrors {
			fields[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
		}
		h.logger.WarnContext(ctx, "Validation errors occurred", "errors", fields)
		web.RespondJSON(w, h.logger, http.StatusBadRequest, map[string]any{"validation_errors": fields})
		return
	}

	status, code := http.StatusInternalServerError, ""
	switch {
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, cart.ErrLineNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrUnknownCategory), errors.Is(err, catalog.ErrUnknownSort),
		errors.Is(err, cart.ErrInvalidColor), errors.Is(err, session.ErrPasswordMismatch),
		errors.Is(err, quote.ErrEmptyCart), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, cart.ErrOutOfStock), errors.Is(err, session.ErrSubmitInProgress),
		errors.Is(err, session.ErrAccountExists):
		status = http.StatusConflict
	case errors.Is(err, wishlist.ErrAuthRequired), errors.Is(err, session.ErrNotSignedIn):
		status, code = http.StatusUnauthorized, codeAuthRequired
	case errors.Is(err, session.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, session.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, idp.ErrIdPInteractionFailed):
		status = http.StatusBadGateway
	}

	if message == "" {
		message = err.Error()
	}
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "Request failed", "error", err)
		if status == http.StatusInternalServerError {
			message = "Internal server error"
		}
	} else {
		h.logger.WarnContext(ctx, "Request rejected", "status", status, "error", err)
	}
	if code != "" {
		web.RespondCodedError(w, h.logger, status, code, message)
		return
	}
	web.RespondError(w, h.logger, status, message)
}

var errBadRequest = errors.New("bad request")

// badRequest marks err as a client input error.
func badRequest(err error) error {
	return fmt.Errorf("%w: %w", errBadRequest, err)
}

// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/trueauth/pkg/httpx"
	ledgerdomain "github.com/ghuser/trueauth/services/ledger/domain"
	registrydomain "github.com/ghuser/trueauth/services/registry/domain"
	transferdomain "github.com/ghuser/trueauth/services/transfer/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, mapErrorToStatus(err), err.Error())
}

func mapErrorToStatus(err error) int {
	switch {
	// Registry
	case errors.Is(err, registrydomain.ErrInvalidName):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, registrydomain.ErrAlreadyRegistered),
		errors.Is(err, registrydomain.ErrNameTaken),
		errors.Is(err, registrydomain.ErrUsernameTaken):
		return http.StatusConflict // 409

	// Ledger
	case errors.Is(err, ledgerdomain.ErrItemNotFound),
		errors.Is(err, ledgerdomain.ErrCertificateNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, ledgerdomain.ErrItemAlreadyClaimed),
		errors.Is(err, ledgerdomain.ErrCertificateExists):
		return http.StatusConflict // 409
	case errors.Is(err, ledgerdomain.ErrInvalidCertificate):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, ledgerdomain.ErrInvalidSignature),
		errors.Is(err, ledgerdomain.ErrUnknownManufacturer),
		errors.Is(err, ledgerdomain.ErrWrongNetwork):
		return http.StatusBadRequest // 400
	case errors.Is(err, ledgerdomain.ErrClaimantNotRegistered):
		return http.StatusForbidden // 403

	// Transfer
	case errors.Is(err, transferdomain.ErrUnauthorized):
		return http.StatusForbidden // 403
	case errors.Is(err, transferdomain.ErrSelfTransfer):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, transferdomain.ErrDuplicateActiveCode):
		return http.StatusConflict // 409
	case errors.Is(err, transferdomain.ErrWrongRecipient):
		return http.StatusForbidden // 403
	case errors.Is(err, transferdomain.ErrCodeNotActive),
		errors.Is(err, transferdomain.ErrCodeExpired):
		return http.StatusGone // 410

	default:
		return http.StatusInternalServerError // 500
	}
}

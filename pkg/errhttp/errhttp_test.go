package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	ledgerdomain "github.com/ghuser/trueauth/services/ledger/domain"
	registrydomain "github.com/ghuser/trueauth/services/registry/domain"
	transferdomain "github.com/ghuser/trueauth/services/transfer/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrInvalidName", registrydomain.ErrInvalidName, http.StatusUnprocessableEntity},
		{"ErrAlreadyRegistered", registrydomain.ErrAlreadyRegistered, http.StatusConflict},
		{"ErrNameTaken", registrydomain.ErrNameTaken, http.StatusConflict},
		{"ErrUsernameTaken", registrydomain.ErrUsernameTaken, http.StatusConflict},
		{"ErrItemNotFound", ledgerdomain.ErrItemNotFound, http.StatusNotFound},
		{"ErrCertificateNotFound", ledgerdomain.ErrCertificateNotFound, http.StatusNotFound},
		{"ErrItemAlreadyClaimed", ledgerdomain.ErrItemAlreadyClaimed, http.StatusConflict},
		{"ErrCertificateExists", ledgerdomain.ErrCertificateExists, http.StatusConflict},
		{"ErrInvalidCertificate", ledgerdomain.ErrInvalidCertificate, http.StatusUnprocessableEntity},
		{"ErrInvalidSignature", ledgerdomain.ErrInvalidSignature, http.StatusBadRequest},
		{"ErrUnknownManufacturer", ledgerdomain.ErrUnknownManufacturer, http.StatusBadRequest},
		{"ErrWrongNetwork", ledgerdomain.ErrWrongNetwork, http.StatusBadRequest},
		{"ErrClaimantNotRegistered", ledgerdomain.ErrClaimantNotRegistered, http.StatusForbidden},
		{"ErrUnauthorized", transferdomain.ErrUnauthorized, http.StatusForbidden},
		{"ErrSelfTransfer", transferdomain.ErrSelfTransfer, http.StatusUnprocessableEntity},
		{"ErrDuplicateActiveCode", transferdomain.ErrDuplicateActiveCode, http.StatusConflict},
		{"ErrWrongRecipient", transferdomain.ErrWrongRecipient, http.StatusForbidden},
		{"ErrCodeNotActive", transferdomain.ErrCodeNotActive, http.StatusGone},
		{"ErrCodeExpired", transferdomain.ErrCodeExpired, http.StatusGone},
		{"wrapped ErrItemNotFound", fmt.Errorf("get item: %w", ledgerdomain.ErrItemNotFound), http.StatusNotFound},
		{"wrapped ErrInvalidSignature", fmt.Errorf("%w: recovered signer mismatch", ledgerdomain.ErrInvalidSignature), http.StatusBadRequest},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestWriteError_JSONBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ledgerdomain.ErrItemNotFound)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Fatal("response body missing 'error' key")
	}
}

func TestWriteError_ContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, transferdomain.ErrCodeExpired)

	ct := w.Header().Get("Content-Type")
	if ct == "" {
		t.Fatal("Content-Type header not set")
	}
}

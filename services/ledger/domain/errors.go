package domain

import "errors"

// Sentinel errors for the item ledger. Use errors.Is() to check these.
var (
	// ErrInvalidCertificate indicates a certificate whose shape or metadata
	// commitment is malformed.
	ErrInvalidCertificate = errors.New("invalid certificate")

	// ErrInvalidSignature indicates a signature that does not verify against
	// the certificate under this deployment's signing domain. Malformed
	// signature encodings and metadata commitment mismatches surface as this
	// error too — callers never see low-level decode failures.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrUnknownManufacturer indicates the recovered signer is not a
	// registered manufacturer.
	ErrUnknownManufacturer = errors.New("unknown manufacturer")

	// ErrWrongNetwork indicates the caller supplied a chain id that does not
	// match this deployment.
	ErrWrongNetwork = errors.New("wrong network")

	// ErrItemAlreadyClaimed indicates an item record already exists for the
	// certificate's unique identifier.
	ErrItemAlreadyClaimed = errors.New("item already claimed")

	// ErrClaimantNotRegistered indicates the claimant is not a registered user.
	ErrClaimantNotRegistered = errors.New("claimant not registered")

	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrCertificateExists indicates a certificate was already saved for the
	// unique identifier.
	ErrCertificateExists = errors.New("certificate already exists")

	// ErrCertificateNotFound indicates no saved certificate for the unique
	// identifier.
	ErrCertificateNotFound = errors.New("certificate not found")
)

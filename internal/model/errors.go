package model

import "errors"

// Common errors used across the application
var (
	// Claim errors, in the order the claim protocol checks them
	ErrNameEmpty     = errors.New("nickname is empty")
	ErrAdminAuth     = errors.New("admin secret mismatch")
	ErrNameBanned    = errors.New("nickname is banned")
	ErrNameInUse     = errors.New("nickname is in use by another connection")
	ErrNotRegistered = errors.New("connection is not registered")

	// Economy errors
	ErrUnknownItem       = errors.New("unknown shop item")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrPlayerNotFound    = errors.New("player not found")

	// Storage errors
	ErrDocumentNotFound = errors.New("document not found")
)

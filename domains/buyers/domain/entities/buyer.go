package entities

import (
	"strings"
	"time"

	domainerrors "caravel/domains/buyers/domain/errors"
)

type Buyer struct {
	BuyerID     string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

func NewBuyer(buyerID, email, displayName string, now time.Time) (Buyer, error) {
	if strings.TrimSpace(buyerID) == "" {
		return Buyer{}, domainerrors.ErrInvalidBuyer
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !isPlausibleEmail(email) {
		return Buyer{}, domainerrors.ErrInvalidEmail
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return Buyer{}, domainerrors.ErrDisplayNameRequired
	}
	return Buyer{
		BuyerID:     buyerID,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   now.UTC(),
	}, nil
}

func isPlausibleEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

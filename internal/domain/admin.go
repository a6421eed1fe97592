package domain

import (
	"strings"
	"time"
)

const MinPasswordLength = 6

type Admin struct {
	ID           uint
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

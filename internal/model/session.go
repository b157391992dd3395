package model

import "time"

type Session struct {
	ID           string
	UserID       int
	RefreshToken string // Хранится только хэш
	ExpiresAt    time.Time
}

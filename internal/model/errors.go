package model

import "errors"

var (
	ErrInvalidAmount       = errors.New("amount must be a positive integer")
	ErrInvalidOutcome      = errors.New("invalid outcome")
	ErrInsufficientBalance = errors.New("not enough coins")
	ErrRoundClosed         = errors.New("betting time has ended for this round")
	ErrNoActiveRound       = errors.New("no active round found")
)

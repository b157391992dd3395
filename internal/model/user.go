package model

import (
	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID       int
	Login    string
	Password string
	Balance  int
}

type UserClaims struct {
	jwt.RegisteredClaims
}

// AuthData - результат регистрации или входа
type AuthData struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
	User         *User
}

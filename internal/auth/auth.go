package auth

import "github.com/golang-jwt/jwt/v5"

type Authenticator interface {
	GenerateStaffToken() (string, error)
	ValidateToken(token string) (*jwt.Token, error)
}

package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the JWT payload for API access tokens.
type JWTClaims struct {
	jwt.RegisteredClaims
}

// IssuedToken is a freshly minted access token.
type IssuedToken struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

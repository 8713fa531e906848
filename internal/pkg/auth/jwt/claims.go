package jwt

import "github.com/golang-jwt/jwt"

// Payload is the claim set of an identity token.
type Payload struct {
	// StandardClaims carries exp, iat, iss and the token id (jti).
	jwt.StandardClaims

	// Username is the authenticated caller. It is the only identity the
	// chat endpoints trust.
	Username string `json:"username"`
}

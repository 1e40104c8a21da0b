package jwt

import "github.com/golang-jwt/jwt"

// Payload is the claim set carried by RoomHub identity tokens.
type Payload struct {
	// StandardClaims embeds the registered JWT fields (exp, iat, iss) used
	// for validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the user's UUID as stored in the users table.
	ID string `json:"id"`

	// Username is the normalized (lowercase) username, carried so handlers
	// can log and respond without a user lookup.
	Username string `json:"username"`
}

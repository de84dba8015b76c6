package benchsdk

// RegisterRequest is the JSON body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthTokens is returned by every auth endpoint. The refresh token is
// rotated on each exchange and must replace the stored one.
type AuthTokens struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

func (t *AuthTokens) valid() bool {
	return t != nil && t.AccessToken != "" && t.RefreshToken != ""
}

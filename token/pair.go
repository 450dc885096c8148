package token

import "golang.org/x/oauth2"

// Pair is the opaque bearer credential pair issued at login.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// OAuth2Token exposes the pair as a bearer oauth2.Token.
func (p Pair) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "Bearer",
	}
}

// PairFromOAuth2 is the inverse of Pair.OAuth2Token.
func PairFromOAuth2(t *oauth2.Token) Pair {
	if t == nil {
		return Pair{}
	}
	return Pair{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken}
}

package google

import "golang.org/x/oauth2"

// StaticTokenSource wraps a bearer access token for Google API clients.
func StaticTokenSource(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
}

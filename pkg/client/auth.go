package client

import (
	"net/http"
	"strings"
)

// CredentialSource supplies the bearer token for outbound calls.
// An empty string means no credential is cached.
type CredentialSource interface {
	Credential() string
}

// excludedPaths never carry a credential, whatever is cached.
var excludedPaths = []string{
	"/auth/login",
	"/auth/register",
	"/reservations/available-rooms",
}

// RequiresCredential reports whether a request to path (including any query
// string) should carry the cached credential. Matching is by substring.
func RequiresCredential(path string) bool {
	for _, p := range excludedPaths {
		if strings.Contains(path, p) {
			return false
		}
	}
	return true
}

// authTransport decorates a base RoundTripper with the credential policy.
type authTransport struct {
	base  http.RoundTripper
	creds CredentialSource
}

func newAuthTransport(base http.RoundTripper, creds CredentialSource) *authTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &authTransport{base: base, creds: creds}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if !RequiresCredential(out.URL.RequestURI()) {
		out.Header.Del("Authorization")
		return t.base.RoundTrip(out)
	}
	if t.creds != nil {
		if token := t.creds.Credential(); token != "" {
			out.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return t.base.RoundTrip(out)
}

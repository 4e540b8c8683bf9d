package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified result of an OIDC login.
type Identity struct {
	Subject string
	Email   string
}

// OIDCConfig holds identity-provider settings.
type OIDCConfig struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Audience     string
	JWKSURL      string
}

// OIDCProvider drives the authorization-code flow against an external
// identity provider and verifies the id_token it returns. The code
// exchange itself is treated as a black box; only the resulting token is
// inspected.
type OIDCProvider struct {
	cfg    OIDCConfig
	client *http.Client

	mu      sync.Mutex
	keys    map[string]*rsa.PublicKey
	fetched time.Time
}

// jwksTTL bounds how long cached signing keys are trusted before refetch.
const jwksTTL = time.Hour

// NewOIDCProvider creates a provider client.
func NewOIDCProvider(cfg OIDCConfig) *OIDCProvider {
	return &OIDCProvider{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthCodeURL builds the provider authorization URL for the login redirect.
func (p *OIDCProvider) AuthCodeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", p.cfg.ClientID)
	q.Set("redirect_uri", p.cfg.RedirectURL)
	q.Set("scope", "openid profile email")
	q.Set("state", state)
	if p.cfg.Audience != "" {
		q.Set("audience", p.cfg.Audience)
	}
	return strings.TrimRight(p.cfg.Issuer, "/") + "/authorize?" + q.Encode()
}

// tokenResponse is the provider's token-endpoint payload.
type tokenResponse struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Exchange trades an authorization code for tokens and returns the verified
// identity embedded in the id_token.
func (p *OIDCProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)
	form.Set("redirect_uri", p.cfg.RedirectURL)

	endpoint := strings.TrimRight(p.cfg.Issuer, "/") + "/oauth/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tokens tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokens.IDToken == "" {
		return nil, fmt.Errorf("token response missing id_token")
	}

	return p.VerifyIDToken(ctx, tokens.IDToken)
}

// idTokenClaims is the subset of id_token claims the API consumes.
type idTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// VerifyIDToken validates an RS256 id_token against the provider JWKS and
// issuer/audience configuration, returning the subject identity.
func (p *OIDCProvider) VerifyIDToken(ctx context.Context, rawToken string) (*Identity, error) {
	claims := &idTokenClaims{}
	parsed, err := jwt.ParseWithClaims(rawToken, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		kid, _ := tok.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token header missing kid")
		}
		return p.signingKey(ctx, kid)
	},
		jwt.WithIssuer(p.cfg.Issuer),
		jwt.WithAudience(p.cfg.ClientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("id_token verification failed: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("id_token is not valid")
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("id_token missing subject")
	}

	return &Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
	}, nil
}

// jwks is the provider's published key set.
type jwks struct {
	Keys []struct {
		Kty string `json:"kty"`
		Kid string `json:"kid"`
		Use string `json:"use"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

// signingKey returns the RSA public key for kid, refetching the JWKS when
// the cache is stale or the kid is unknown.
func (p *OIDCProvider) signingKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if key, ok := p.keys[kid]; ok && time.Since(p.fetched) < jwksTTL {
		return key, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.JWKSURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build JWKS request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var keySet jwks
	if err := json.NewDecoder(resp.Body).Decode(&keySet); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(keySet.Keys))
	for _, k := range keySet.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := parseRSAKey(k.N, k.E)
		if err != nil {
			return nil, fmt.Errorf("failed to parse JWKS key %s: %w", k.Kid, err)
		}
		keys[k.Kid] = pub
	}

	p.keys = keys
	p.fetched = time.Now()

	key, ok := p.keys[kid]
	if !ok {
		return nil, fmt.Errorf("no JWKS key matches kid %s", kid)
	}
	return key, nil
}

// parseRSAKey builds an rsa.PublicKey from base64url-encoded modulus and
// exponent as published in a JWKS.
func parseRSAKey(n, e string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("invalid modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("invalid exponent: %w", err)
	}

	exponent := 0
	for _, b := range eBytes {
		exponent = exponent<<8 | int(b)
	}
	if exponent == 0 {
		return nil, fmt.Errorf("exponent is zero")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: exponent,
	}, nil
}

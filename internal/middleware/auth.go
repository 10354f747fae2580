package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
)

type subjectKey struct{}

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	Subject string
	Issuer  string
}

// TokenValidator verifies a bearer token and returns its caller.
type TokenValidator interface {
	Validate(ctx context.Context, tokenString string) (*Principal, error)
}

// HS256Validator verifies tokens signed with a shared secret.
type HS256Validator struct {
	secret   []byte
	issuer   string
	audience string
}

// NewHS256Validator returns a validator for tokens signed with secret. Issuer
// and audience are checked only when non-empty.
func NewHS256Validator(secret, issuer, audience string) *HS256Validator {
	return &HS256Validator{secret: []byte(secret), issuer: issuer, audience: audience}
}

// Validate parses and verifies tokenString.
func (v *HS256Validator) Validate(_ context.Context, tokenString string) (*Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &Principal{Subject: claims.Subject, Issuer: claims.Issuer}, nil
}

// OIDCValidator verifies tokens against the signing keys published by an
// OpenID Connect provider.
type OIDCValidator struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCValidator discovers the provider at issuerURL. ctx bounds discovery
// and must outlive the validator, since key refreshes use it. An empty
// audience skips the audience check.
func NewOIDCValidator(ctx context.Context, issuerURL, audience string) (*OIDCValidator, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc provider discovery: %w", err)
	}
	return &OIDCValidator{verifier: provider.Verifier(&oidc.Config{
		ClientID:          audience,
		SkipClientIDCheck: audience == "",
	})}, nil
}

// Validate verifies signature, issuer, audience and expiry of tokenString.
func (v *OIDCValidator) Validate(ctx context.Context, tokenString string) (*Principal, error) {
	tok, err := v.verifier.Verify(ctx, tokenString)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	if tok.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &Principal{Subject: tok.Subject, Issuer: tok.Issuer}, nil
}

// Auth rejects requests without a valid "Authorization: Bearer" token. A nil
// validator disables the check.
func Auth(v TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if v == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="parquet-explorer"`)
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			p, err := v.Validate(r.Context(), raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, subjectKey{}, p)
}

// PrincipalFromContext returns the caller stored by Auth.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(subjectKey{}).(*Principal)
	return p, ok && p != nil
}

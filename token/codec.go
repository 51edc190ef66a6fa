// Package token issues and verifies bearer access tokens.
//
// Tokens are compact HS256 JWS. The payload carries at least "sub",
// "permissions" (a list of integer grants), "exp", "iat", and a unique
// "jti". Verification checks the signature and expiry, then gates on a
// required permission set: every required grant must be present.
package token

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/smplatform/identity/errors"
)

// Claims is the decoded token payload.
type Claims map[string]any

// Subject returns the "sub" claim, or "" when absent.
func (c Claims) Subject() string {
	sub, _ := c["sub"].(string)
	return sub
}

// Permissions returns the integer grants carried in the "permissions"
// claim. The second return is false when the claim is present but not a
// list of integers.
func (c Claims) Permissions() ([]int, bool) {
	raw, present := c["permissions"]
	if !present {
		return nil, true
	}
	return intList(raw)
}

// Codec signs and verifies access tokens with a shared HMAC secret.
// The signing algorithm is fixed to HS256; tokens declaring any other
// algorithm fail verification.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a codec from configuration.
func NewCodec(cfg Config) (*Codec, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Codec{secret: []byte(cfg.Secret), ttl: cfg.TTL}, nil
}

// Issue signs the given claims with a computed expiry. A ttl <= 0 falls
// back to the configured default. The input map is not mutated; "exp",
// "iat" and a unique "jti" are set on a copy before signing.
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := time.Now()

	payload := make(gojwt.MapClaims, len(claims)+3)
	for k, v := range claims {
		payload[k] = v
	}
	payload["exp"] = gojwt.NewNumericDate(now.Add(ttl))
	payload["iat"] = gojwt.NewNumericDate(now)
	payload["jti"] = uuid.NewString()

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, payload).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// IssueAccess creates an access token for a subject with the given grants.
func (c *Codec) IssueAccess(subject string, permissions []int) (string, error) {
	return c.Issue(Claims{"sub": subject, "permissions": permissions}, 0)
}

// Verify parses and validates a token string, then checks that every
// required grant appears in the token's permission set.
//
//   - bad signature, wrong algorithm, or expired token: UNAUTHENTICATED
//   - permissions claim present but not a list of ints: MALFORMED_CLAIMS
//   - any required grant missing: FORBIDDEN
//
// On success the full decoded claims are returned.
func (c *Codec) Verify(tokenString string, required ...int) (Claims, error) {
	parsed, err := gojwt.Parse(tokenString, c.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, errors.Unauthenticated("invalid or expired token").WithCause(err)
	}
	mapClaims, ok := parsed.Claims.(gojwt.MapClaims)
	if !ok {
		return nil, errors.Unauthenticated("invalid token payload")
	}
	claims := Claims(mapClaims)

	if len(required) > 0 {
		granted, ok := claims.Permissions()
		if !ok {
			return nil, errors.MalformedClaims("permissions claim is not a list of integers")
		}
		if missing := missingGrants(required, granted); len(missing) > 0 {
			return nil, errors.Forbidden("missing required permissions").
				WithDetail("missing", missing)
		}
	}
	return claims, nil
}

func (c *Codec) keyFunc(t *gojwt.Token) (any, error) {
	return c.secret, nil
}

// missingGrants returns the required grants absent from granted,
// preserving the order they were required in.
func missingGrants(required, granted []int) []int {
	held := make(map[int]struct{}, len(granted))
	for _, g := range granted {
		held[g] = struct{}{}
	}
	var missing []int
	for _, r := range required {
		if _, ok := held[r]; !ok {
			missing = append(missing, r)
		}
	}
	return missing
}

// intList coerces a decoded JSON value into a list of ints. JSON numbers
// arrive as float64; locally issued tokens may carry []int directly.
func intList(raw any) ([]int, bool) {
	switch v := raw.(type) {
	case []int:
		return v, true
	case []any:
		out := make([]int, 0, len(v))
		for _, item := range v {
			f, ok := item.(float64)
			if !ok || f != float64(int(f)) {
				return nil, false
			}
			out = append(out, int(f))
		}
		return out, true
	default:
		return nil, false
	}
}

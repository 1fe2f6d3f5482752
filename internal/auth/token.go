package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the only supported token claims shape.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies signed bearer tokens. It is a pure function of
// its inputs plus the signing secret: no store access, no shared state.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec constructs a Codec. The TTL is the default issuance window;
// 30 days is deliberate for a low-friction marketplace and overridable
// through configuration.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the default issuance window.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue produces a signed token for the subject using the default TTL.
func (c *Codec) Issue(subjectID int64, role Role) (string, error) {
	return c.IssueWithTTL(subjectID, role, c.ttl)
}

// IssueWithTTL produces a signed token with an explicit expiry window.
// The embedded role is a snapshot at issuance time; authorization always
// re-reads the live record, so the snapshot is informational only.
func (c *Codec) IssueWithTTL(subjectID int64, role Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the decoded claims.
// Malformed, tampered and expired tokens all collapse into ErrInvalidToken;
// the parse error is kept in the chain for diagnostics.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SubjectID returns the numeric subject identifier.
func (c *Claims) SubjectID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}

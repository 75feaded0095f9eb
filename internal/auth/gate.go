package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnauthorized = errors.New("unauthorized")

const operatorRole = "operator"

// Identity is the result of classifying a bearer credential: either a
// customer (ID set) or the shared operator capability. Any verified operator
// credential is equivalent for authorization purposes.
type Identity struct {
	CustomerID string
	Operator   bool
}

type claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Gate verifies HMAC-signed bearer tokens. It is a pure classifier: no side
// effects, no per-call state.
type Gate struct {
	secret []byte
}

func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// Verify classifies a raw bearer token. Absent, malformed, expired or
// wrongly-signed tokens all come back as ErrUnauthorized.
func (g *Gate) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrUnauthorized
	}
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Identity{}, ErrUnauthorized
	}
	if c.Role == operatorRole {
		return Identity{Operator: true}, nil
	}
	if c.Subject == "" {
		return Identity{}, ErrUnauthorized
	}
	return Identity{CustomerID: c.Subject}, nil
}

// IssueCustomerToken mints a customer credential. Token issuance normally
// lives in the identity provider; these helpers exist for tests and tooling.
func (g *Gate) IssueCustomerToken(customerID string, ttl time.Duration) (string, error) {
	return g.sign(claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   customerID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

// IssueOperatorToken mints the shared operator capability.
func (g *Gate) IssueOperatorToken(ttl time.Duration) (string, error) {
	return g.sign(claims{
		Role: operatorRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

func (g *Gate) sign(c claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(g.secret)
}

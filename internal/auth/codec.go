package auth

import (
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/token-service/pkg/util"
)

// UserRef identifies the account a token was issued to. TrackingID is the
// uuid of the server-side revocation record; it is empty for tokens issued
// while tracking was disabled.
type UserRef struct {
	ID         int64  `json:"id,omitempty"`
	TrackingID string `json:"uuid,omitempty"`
}

// Subject is the application payload carried under the "data" claim.
// Extended marks tokens produced by regeneration.
type Subject struct {
	User     UserRef `json:"user"`
	Extended bool    `json:"extended,omitempty"`
}

// Tracked reports whether the token carries a revocation tracking id.
func (s Subject) Tracked() bool { return s.User.TrackingID != "" }

// Claims is the signed token payload.
type Claims struct {
	Data Subject `json:"data"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies claims with a single shared secret and a
// single fixed algorithm (HS256). It is stateless apart from the key.
type TokenCodec struct {
	secret []byte
	clock  Clock
}

// NewTokenCodec builds a codec. An empty secret is tolerated here and
// rejected on every encode/decode, so that misconfiguration surfaces as a
// typed error rather than a startup panic.
func NewTokenCodec(secret string, clock Clock) *TokenCodec {
	if clock == nil {
		clock = SystemClock()
	}
	return &TokenCodec{secret: []byte(secret), clock: clock}
}

// Configured reports whether a signing secret is present.
func (c *TokenCodec) Configured() bool { return len(c.secret) > 0 }

// Encode signs the claims with HS256.
func (c *TokenCodec) Encode(claims *Claims) (string, error) {
	if !c.Configured() {
		return "", util.NewBadConfig()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and the temporal claims (exp, nbf) against
// the codec's clock. All decode failures collapse to the invalid-token kind.
func (c *TokenCodec) Decode(tokenStr string) (*Claims, error) {
	return c.decode(tokenStr, true)
}

// DecodeSignatureOnly verifies the signature but not exp/nbf. Used by the
// revoke path so that tracking records of already-expired tokens can still
// be cleaned up.
func (c *TokenCodec) DecodeSignatureOnly(tokenStr string) (*Claims, error) {
	return c.decode(tokenStr, false)
}

func (c *TokenCodec) decode(tokenStr string, validateTime bool) (*Claims, error) {
	if !c.Configured() {
		return nil, util.NewBadConfig()
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
	}
	if !validateTime {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return nil, util.NewInvalidToken(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, util.NewInvalidToken(nil)
	}
	return claims, nil
}

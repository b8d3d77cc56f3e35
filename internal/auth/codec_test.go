package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/token-service/pkg/util"
)

const (
	testSecret     = "s3cr3t"
	testIssuer     = "http://example.test"
	testTrackingID = "11111111-1111-4111-8111-111111111111"
)

func testClaims(issuedAt, expiresAt int64) *Claims {
	return &Claims{
		Data: Subject{User: UserRef{ID: 42, TrackingID: testTrackingID}},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Unix(issuedAt, 0)),
			NotBefore: jwt.NewNumericDate(time.Unix(issuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(expiresAt, 0)),
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	const issuedAt = int64(1000)
	const expiresAt = issuedAt + 2419200 // 28 days

	encoder := NewTokenCodec(testSecret, FixedClock(time.Unix(issuedAt, 0)))
	token, err := encoder.Encode(testClaims(issuedAt, expiresAt))
	require.NoError(t, err)

	decoder := NewTokenCodec(testSecret, FixedClock(time.Unix(1500, 0)))
	claims, err := decoder.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.Data.User.ID)
	assert.Equal(t, testTrackingID, claims.Data.User.TrackingID)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Equal(t, issuedAt, claims.IssuedAt.Unix())
	assert.Equal(t, expiresAt, claims.ExpiresAt.Unix())
	assert.False(t, claims.Data.Extended)
}

func TestDecodeExpired(t *testing.T) {
	const issuedAt = int64(1000)
	const expiresAt = issuedAt + 2419200

	encoder := NewTokenCodec(testSecret, FixedClock(time.Unix(issuedAt, 0)))
	token, err := encoder.Encode(testClaims(issuedAt, expiresAt))
	require.NoError(t, err)

	// One second past expiry.
	decoder := NewTokenCodec(testSecret, FixedClock(time.Unix(expiresAt+1, 0)))
	_, err = decoder.Decode(token)
	assert.True(t, util.HasCode(err, util.CodeInvalidToken))
}

func TestDecodeNotYetValid(t *testing.T) {
	codec := NewTokenCodec(testSecret, FixedClock(time.Unix(500, 0)))
	token, err := codec.Encode(testClaims(1000, 1000+2419200))
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.True(t, util.HasCode(err, util.CodeInvalidToken))
}

func TestDecodeTamperedSignature(t *testing.T) {
	codec := NewTokenCodec(testSecret, FixedClock(time.Unix(1000, 0)))
	token, err := codec.Encode(testClaims(1000, 1000+2419200))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	for i := range sig {
		tampered := make([]byte, len(sig))
		copy(tampered, sig)
		if tampered[i] == 'A' {
			tampered[i] = 'B'
		} else {
			tampered[i] = 'A'
		}

		_, err := codec.Decode(parts[0] + "." + parts[1] + "." + string(tampered))
		assert.True(t, util.HasCode(err, util.CodeInvalidToken), "byte %d", i)
	}
}

func TestDecodeWrongSecret(t *testing.T) {
	clock := FixedClock(time.Unix(1000, 0))
	token, err := NewTokenCodec(testSecret, clock).Encode(testClaims(1000, 1000+2419200))
	require.NoError(t, err)

	_, err = NewTokenCodec("other-secret", clock).Decode(token)
	assert.True(t, util.HasCode(err, util.CodeInvalidToken))
}

func TestDecodeGarbage(t *testing.T) {
	codec := NewTokenCodec(testSecret, FixedClock(time.Unix(1000, 0)))
	_, err := codec.Decode("not.a.token")
	assert.True(t, util.HasCode(err, util.CodeInvalidToken))
}

func TestEmptySecret(t *testing.T) {
	codec := NewTokenCodec("", FixedClock(time.Unix(1000, 0)))
	assert.False(t, codec.Configured())

	_, err := codec.Encode(testClaims(1000, 2000))
	assert.True(t, util.HasCode(err, util.CodeBadConfig))

	_, err = codec.Decode("whatever")
	assert.True(t, util.HasCode(err, util.CodeBadConfig))
}

func TestDecodeSignatureOnlyIgnoresExpiry(t *testing.T) {
	const issuedAt = int64(1000)
	const expiresAt = issuedAt + 2419200

	encoder := NewTokenCodec(testSecret, FixedClock(time.Unix(issuedAt, 0)))
	token, err := encoder.Encode(testClaims(issuedAt, expiresAt))
	require.NoError(t, err)

	// Long past expiry: temporal failures are non-fatal here, signature
	// failures are not.
	decoder := NewTokenCodec(testSecret, FixedClock(time.Unix(expiresAt+10000, 0)))
	claims, err := decoder.DecodeSignatureOnly(token)
	require.NoError(t, err)
	assert.Equal(t, testTrackingID, claims.Data.User.TrackingID)

	_, err = NewTokenCodec("other-secret", decoder.clock).DecodeSignatureOnly(token)
	assert.True(t, util.HasCode(err, util.CodeInvalidToken))
}

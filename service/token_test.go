package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	id := primitive.NewObjectID()

	tok, err := svc.Issue(id)
	require.NoError(t, err)

	got, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestVerifyRejectsUniformly(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	id := primitive.NewObjectID()
	good, err := svc.Issue(id)
	require.NoError(t, err)

	expired := NewTokenService("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredTok, err := expired.Issue(id)
	require.NoError(t, err)

	otherKey, err := NewTokenService("other-secret", time.Hour).Issue(id)
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: id.Hex()})
	noneTok, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           "not-an-id",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	badSubjectTok, err := badSubject.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"empty":       "",
		"garbage":     "not.a.jwt",
		"expired":     expiredTok,
		"wrong key":   otherKey,
		"tampered":    tampered,
		"alg none":    noneTok,
		"bad subject": badSubjectTok,
	} {
		got, err := svc.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
		assert.Equal(t, primitive.NilObjectID, got, name)
	}
}

package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktracker/internal/core/domain"
	"tasktracker/pkg/auth"
	"tasktracker/pkg/test"
)

func newJWT(t *testing.T, clock *test.FixedClock, secret string, alg string) *auth.JWT {
	t.Helper()

	j, err := auth.NewJWT(auth.TokenConfig{Secret: secret, Algorithm: alg, TTL: 30 * time.Minute}, clock)
	require.NoError(t, err)

	return j
}

func TestJWT_RoundTrip(t *testing.T) {
	clock := test.NewFixedClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	tokens := newJWT(t, clock, "secret", "HS256")
	id := uuid.New()

	token, err := tokens.Issue(id, "a@x.com", 30*time.Minute)
	require.NoError(t, err)

	claims, err := tokens.Verify(token)

	assert.NoError(t, err)
	assert.Equal(t, id, claims.SubjectID)
	assert.Equal(t, "a@x.com", claims.SubjectEmail)
	assert.True(t, claims.IssuedAt.Equal(clock.Now()))
	assert.True(t, claims.ExpiresAt.Equal(clock.Now().Add(30*time.Minute)))
}

func TestJWT_Expiry(t *testing.T) {
	clock := test.NewFixedClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	tokens := newJWT(t, clock, "secret", "HS256")

	token, err := tokens.Issue(uuid.New(), "a@x.com", 30*time.Minute)
	require.NoError(t, err)

	clock.Advance(29 * time.Minute)
	_, err = tokens.Verify(token)
	assert.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestJWT_Rejects(t *testing.T) {
	clock := test.NewFixedClock(time.Now())
	tokens := newJWT(t, clock, "secret", "HS256")
	id := uuid.New()

	valid, err := tokens.Issue(id, "a@x.com", time.Minute)
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		_, err := newJWT(t, clock, "rotated", "HS256").Verify(valid)
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})

	t.Run("other algorithm", func(t *testing.T) {
		other, err := newJWT(t, clock, "secret", "HS512").Issue(id, "a@x.com", time.Minute)
		require.NoError(t, err)

		_, err = tokens.Verify(other)
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})

	t.Run("alg none", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{
			UserID: id.String(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Minute)),
			},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tokens.Verify(unsigned)
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})

	t.Run("missing expiry", func(t *testing.T) {
		forever, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{UserID: id.String()}).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = tokens.Verify(forever)
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := tokens.Verify("not.a.token")
		assert.ErrorIs(t, err, domain.ErrAuthentication)

		_, err = tokens.Verify("")
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := tokens.Verify(valid + "x")
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})
}

func TestTokenConfig_Validate(t *testing.T) {
	assert.Error(t, auth.TokenConfig{Algorithm: "HS256", TTL: time.Minute}.Validate())
	assert.Error(t, auth.TokenConfig{Secret: "s", Algorithm: "RS256", TTL: time.Minute}.Validate())
	assert.Error(t, auth.TokenConfig{Secret: "s", Algorithm: "HS256"}.Validate())
	assert.NoError(t, auth.TokenConfig{Secret: "s", Algorithm: "HS384", TTL: time.Minute}.Validate())
}

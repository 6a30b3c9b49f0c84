package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/port"
)

var supportedMethods = map[string]*jwt.SigningMethodHMAC{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// TokenConfig is built once at startup. Changing Secret invalidates every issued token.
type TokenConfig struct {
	Secret    string
	Algorithm string
	TTL       time.Duration
}

func (c TokenConfig) Validate() error {
	if c.Secret == "" {
		return errors.New("token secret is required")
	}

	if _, ok := supportedMethods[c.Algorithm]; !ok {
		return fmt.Errorf("unsupported signing algorithm %q", c.Algorithm)
	}

	if c.TTL <= 0 {
		return errors.New("token ttl must be positive")
	}

	return nil
}

// Claims carries the user id under "id" and the email under "sub".
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

type JWT struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	clock  port.Clock
}

func NewJWT(cfg TokenConfig, clock port.Clock) (*JWT, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &JWT{
		secret: []byte(cfg.Secret),
		method: supportedMethods[cfg.Algorithm],
		clock:  clock,
	}, nil
}

func (j *JWT) Issue(subjectID uuid.UUID, subjectEmail string, ttl time.Duration) (string, error) {
	now := j.clock.Now()

	token := jwt.NewWithClaims(j.method, Claims{
		UserID: subjectID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectEmail,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	return token.SignedString(j.secret)
}

// Verify accepts a token only if signature, algorithm, structure and expiry all check out.
func (j *JWT) Verify(tokenString string) (port.TokenClaims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{j.method.Alg()}),
		jwt.WithTimeFunc(j.clock.Now),
		jwt.WithExpirationRequired(),
	)

	if err != nil || !token.Valid {
		slog.Warn("Auth#VerifyToken", "error", err)
		return port.TokenClaims{}, domain.NewAuthenticationError("")
	}

	userID, err := uuid.Parse(claims.UserID)

	if err != nil {
		slog.Warn("Auth#VerifyToken", "invalid_subject_id", err)
		return port.TokenClaims{}, domain.NewAuthenticationError("")
	}

	result := port.TokenClaims{
		SubjectID:    userID,
		SubjectEmail: claims.Subject,
		ExpiresAt:    claims.ExpiresAt.Time.UTC(),
	}

	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time.UTC()
	}

	return result, nil
}

package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/adapter/http/helper"
	"tasktracker/internal/core/domain"
	ct "tasktracker/pkg/context"
)

const identityKey = "identity"

type IdentityResolver interface {
	ResolveCurrentUser(ctx context.Context, token string) (domain.Identity, error)
}

// AuthMiddleware rejects the request with 401 before any handler runs unless
// it carries a valid bearer token.
func AuthMiddleware(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))

		if !ok {
			helper.SendUnauthorizedError(c, domain.ErrAuthentication.Message)
			c.Abort()
			return
		}

		identity, err := resolver.ResolveCurrentUser(c.Request.Context(), token)

		if err != nil {
			helper.SendDomainError(c, err)
			c.Abort()
			return
		}

		GetCurrent(c).Set(ct.UserIDKey, identity.UserID.String())
		c.Set(identityKey, identity)

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")

	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}

func IdentityFromContext(c *gin.Context) (domain.Identity, bool) {
	value, ok := c.Get(identityKey)

	if !ok {
		return domain.Identity{}, false
	}

	identity, ok := value.(domain.Identity)

	return identity, ok
}

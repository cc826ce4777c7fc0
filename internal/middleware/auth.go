package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/zitlabs/campus/config"
	"github.com/zitlabs/campus/internal/dto"
	"github.com/zitlabs/campus/internal/model"
	"github.com/zitlabs/campus/internal/repository"
)

// actorKey is where RequireAuth stashes the authenticated *model.User.
const actorKey = "actor"

// resolveBearer parses the Authorization header and loads the account the
// token names. The second return is a client-facing reason when no actor
// could be resolved.
func resolveBearer(c *gin.Context, cfg *config.Config, userRepo repository.UserRepository) (*model.User, string) {
	header := c.GetHeader("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return nil, "missing bearer token"
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(cfg.Auth.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, "invalid or expired token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "invalid token claims"
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, "invalid token subject"
	}

	user, err := userRepo.FindByID(uint(sub))
	if err != nil {
		log.Warn().Err(err).Uint("userID", uint(sub)).Msg("Auth: token for unknown account")
		return nil, "account not found"
	}
	return user, ""
}

// RequireAuth validates the Bearer token and loads the account it names.
// A token for a deleted account is rejected the same way as a bad token.
func RequireAuth(cfg *config.Config, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, reason := resolveBearer(c, cfg, userRepo)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: reason})
			return
		}
		c.Set(actorKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the actor when a valid Bearer token is present and
// lets the request through either way. Handlers on public routes use it to
// personalize a response without requiring a login.
func OptionalAuth(cfg *config.Config, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, _ := resolveBearer(c, cfg, userRepo); user != nil {
			c.Set(actorKey, user)
		}
		c.Next()
	}
}

// RequireRole allows the request through only when the authenticated
// account holds one of the given roles. Must run after RequireAuth.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if actor == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "insufficient role"})
	}
}

// Actor returns the authenticated user set by RequireAuth, or nil.
func Actor(c *gin.Context) *model.User {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	user, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return user
}

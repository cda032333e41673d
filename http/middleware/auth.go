package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tnqbao/gau-upload-service/config"
	"github.com/tnqbao/gau-upload-service/infra"
	"github.com/tnqbao/gau-upload-service/repository"
	"github.com/tnqbao/gau-upload-service/utils"
)

// AuthMiddleware guards the session-bound routes. The access token comes from
// the account service as an HMAC-signed JWT, delivered either as the
// access_token cookie or a Bearer header. When Redis is configured, tokens
// revoked by logout are rejected as well.
func AuthMiddleware(userRepo repository.UserRepository, redis *infra.RedisClient, cfg *config.EnvConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := utils.ExtractToken(c)
		if tokenStr == "" {
			utils.JSON401(c, "Authorization is required")
			c.Abort()
			return
		}

		parsedToken, err := utils.ParseToken(tokenStr, cfg)
		if err != nil || !parsedToken.Valid {
			utils.JSON401(c, "Invalid or expired token")
			c.Abort()
			return
		}

		if redis != nil {
			if revoked, err := redis.IsAccessTokenRevoked(c.Request.Context(), tokenStr); err == nil && revoked {
				utils.JSON401(c, "Token has been revoked")
				c.Abort()
				return
			}
		}

		claims, ok := parsedToken.Claims.(jwt.MapClaims)
		if !ok {
			utils.JSON401(c, "Invalid token claims")
			c.Abort()
			return
		}
		if err := utils.InjectClaimsToContext(c, claims); err != nil {
			utils.JSON401(c, "Invalid claims")
			c.Abort()
			return
		}

		// Older account-service tokens carry no username claim; fall back to
		// the user record since filenames are derived from it.
		if c.GetString("username") == "" {
			userID, err := utils.GetUserIDFromContext(c)
			if err != nil {
				utils.JSON401(c, "Invalid claims")
				c.Abort()
				return
			}
			user, err := userRepo.FindByID(userID)
			if err != nil {
				utils.JSON401(c, "Unknown user")
				c.Abort()
				return
			}
			c.Set("username", user.Username)
		}

		c.Next()
	}
}

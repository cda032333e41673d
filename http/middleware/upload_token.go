package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-upload-service/config"
	"github.com/tnqbao/gau-upload-service/repository"
	"github.com/tnqbao/gau-upload-service/utils"
)

// UploadTokenMiddleware guards the cross-origin upload routes. The stateless
// token binds an identity to a time window; verification recomputes the
// signature from the server secret, then resolves the user so handlers get
// the same user_id/username context the session path provides. Every failure
// mode collapses to the same 401.
func UploadTokenMiddleware(userRepo repository.UserRepository, cfg *config.EnvConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.PostForm("token")
		if token == "" {
			token = c.GetHeader("X-Upload-Token")
		}
		if token == "" {
			utils.JSON401(c, "Invalid or expired token")
			c.Abort()
			return
		}

		userIDStr, err := utils.VerifyUploadToken(token, cfg.Upload.TokenSecret, cfg.Upload.TokenTTL, time.Now())
		if err != nil {
			utils.JSON401(c, "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			utils.JSON401(c, "Invalid or expired token")
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(userID)
		if err != nil {
			utils.JSON401(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID.String())
		c.Set("username", user.Username)
		c.Set("auth_method", "upload_token")

		c.Next()
	}
}

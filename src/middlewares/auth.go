package middlewares

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"bts/src/db"
	"bts/src/lib"
	"bts/src/models"
	"bts/src/services"
	"bts/src/types"

	"github.com/gin-gonic/gin"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func userCacheKey(username string) string {
	return fmt.Sprintf("user:%s", username)
}

func lookupUser(username string) (*models.User, error) {
	rd := lib.GetRedisClient()
	if rd != nil {
		if raw, err := rd.Get(context.Background(), userCacheKey(username)).Result(); err == nil {
			var user models.User
			if err := json.Unmarshal([]byte(raw), &user); err == nil && user.ID > 0 {
				return &user, nil
			}
		}
	}
	var user models.User
	if err := db.GetDb().Model(&models.User{}).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	if rd != nil {
		if raw, err := json.Marshal(user); err == nil {
			rd.SetEx(context.Background(), userCacheKey(username), string(raw), 15*time.Minute)
		}
	}
	return &user, nil
}

// InvalidateUserCache drops the cached principal after a profile or
// password change.
func InvalidateUserCache(username string) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	rd.Del(context.Background(), userCacheKey(username))
}

func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatus(401)
		return
	}
	parts := strings.Split(bearerToken, " ")
	if len(parts) < 2 || parts[1] == "" {
		ctx.AbortWithStatus(401)
		return
	}
	reqToken := parts[1]
	claims, err := services.ParseToken(jwtKey, reqToken)
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatus(401)
		return
	}

	user, err := lookupUser(claims.Subject)
	if err != nil || user == nil || user.ID < 1 {
		ctx.AbortWithStatus(401)
		return
	}
	ctx.Set("principal", types.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
}

// RequireRole gates a route group on an exact role match.
func RequireRole(role types.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		p, ok := GetPrincipal(ctx)
		if !ok {
			ctx.AbortWithStatus(401)
			return
		}
		if p.Role != role {
			ctx.AbortWithStatus(403)
			return
		}
	}
}

func GetPrincipal(ctx *gin.Context) (types.Principal, bool) {
	v, ok := ctx.Get("principal")
	if !ok {
		return types.Principal{}, false
	}
	p, ok := v.(types.Principal)
	return p, ok
}

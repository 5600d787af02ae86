package main

import (
	"net/http"

	"bts/src/middlewares"
	"bts/src/types"

	"github.com/gin-gonic/gin"
)

func authGuestHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/auth/register", func(ctx *gin.Context) {
			var body types.RegisterRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			user, err := identitySvc.Register(body)
			if err != nil {
				mapServiceError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": user})
		}).
		POST("/auth/login", func(ctx *gin.Context) {
			var body types.LoginRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			token, user, err := identitySvc.Login(body)
			if err != nil {
				mapServiceError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"token": token, "user": user})
		})
	return g
}

func profileHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	getProfile := func(ctx *gin.Context) {
		user, err := identitySvc.Profile(principal(ctx))
		if err != nil {
			mapServiceError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": user})
	}
	updateProfile := func(ctx *gin.Context) {
		var body types.UpdateProfileRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		p := principal(ctx)
		user, err := identitySvc.UpdateProfile(p, body)
		if err != nil {
			mapServiceError(ctx, err)
			return
		}
		middlewares.InvalidateUserCache(p.Username)
		ctx.JSON(http.StatusOK, gin.H{"data": user})
	}
	changePassword := func(ctx *gin.Context) {
		var body types.ChangePasswordRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		p := principal(ctx)
		if err := identitySvc.ChangePassword(p, body); err != nil {
			mapServiceError(ctx, err)
			return
		}
		middlewares.InvalidateUserCache(p.Username)
		ctx.JSON(http.StatusOK, gin.H{"message": "password changed"})
	}

	// The auth-prefixed and bare profile routes are aliases kept for older
	// clients.
	g.
		GET("/auth/profile", getProfile).
		PUT("/auth/profile", updateProfile).
		PUT("/auth/change-password", changePassword).
		GET("/profile", getProfile).
		PUT("/profile", updateProfile).
		PUT("/profile/change-password", changePassword)
	return g
}

package main

import (
	"net/http"

	"bts/src/db"
	"bts/src/models"
	"bts/src/models/scopes"
	"bts/src/types"

	"github.com/gin-gonic/gin"
)

func notificationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/notifications", func(ctx *gin.Context) {
			p := principal(ctx)
			var notifications []models.Notification
			err := db.GetDb().
				Model(&models.Notification{}).
				Scopes(scopes.WithUser(p.UserID), scopes.NewestFirst).
				Find(&notifications).
				Error
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": notifications, "count": len(notifications)})
		}).
		PATCH("/notifications/:id/read", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			p := principal(ctx)
			res := db.GetDb().
				Model(&models.Notification{}).
				Where("id = ? AND user_id = ?", params.ID, p.UserID).
				Update("is_read", true)
			if res.Error != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/notifications/devices", func(ctx *gin.Context) {
			var body types.RegisterDeviceRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			p := principal(ctx)
			device := models.UserDevice{
				UserID:     p.UserID,
				FcmToken:   body.FcmToken,
				DeviceInfo: body.DeviceInfo,
			}
			if err := db.GetDb().Create(&device).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": device})
		})
	return g
}

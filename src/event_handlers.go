package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bts/src/db"
	"bts/src/lib"
	"bts/src/models"
	"bts/src/models/scopes"
	"bts/src/types"

	"github.com/gin-gonic/gin"
)

// eventHandlers is the public catalog. No auth; only published events are
// visible.
func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			page, pageSize, q := pageParams(ctx)
			var filters types.EventQueryFilters
			_ = ctx.ShouldBindQuery(&filters)

			conn := db.GetDb()
			query := conn.
				Model(&models.Event{}).
				Where("published = ?", true).
				Scopes(
					scopes.Search(q, "title", "name", "location"),
					scopes.StartTimeRange(filters.From, filters.To),
				)
			if filters.CategoryID > 0 {
				query = query.Where("category_id = ?", filters.CategoryID)
			}
			if filters.IsHot != nil {
				query = query.Where("is_hot = ?", *filters.IsHot)
			}
			if filters.IsNew != nil {
				query = query.Where("is_new = ?", *filters.IsNew)
			}

			var total int64
			if err := query.Count(&total).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
				return
			}
			var events []models.Event
			err := query.
				Order("start_time ASC").
				Scopes(scopes.Paginate(page, pageSize)).
				Preload("Category").
				Find(&events).
				Error
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
				return
			}
			listEnvelope(ctx, total, page, pageSize, events)
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}

			cacheKey := fmt.Sprintf("event:%d", params.ID)
			rd := lib.GetRedisClient()
			if rd != nil {
				if raw, err := rd.Get(context.Background(), cacheKey).Result(); err == nil {
					var event models.Event
					if err := json.Unmarshal([]byte(raw), &event); err == nil && event.ID > 0 {
						ctx.JSON(http.StatusOK, gin.H{"data": event})
						return
					}
				}
			}

			var event models.Event
			err := db.GetDb().
				Model(&models.Event{}).
				Where("id = ? AND published = ?", params.ID, true).
				Preload("Category").
				Preload("TicketTypes").
				Preload("Performers").
				First(&event).
				Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
				return
			}
			if rd != nil {
				if raw, err := json.Marshal(event); err == nil {
					rd.SetEx(context.Background(), cacheKey, string(raw), 5*time.Minute)
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		})
	return g
}

package main

import (
	"net/http"
	"time"

	"bts/src/config"
	"bts/src/db"
	"bts/src/models"
	"bts/src/models/scopes"
	"bts/src/types"
	"bts/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// adminList runs the uniform admin listing: free-text q over searchCols,
// optional structured filters through apply, newest first, paged envelope.
func adminList[T any](ctx *gin.Context, searchCols []string, apply func(q *gorm.DB) *gorm.DB, preloads ...string) {
	page, pageSize, q := pageParams(ctx)
	query := db.GetDb().Model(new(T)).Scopes(scopes.Search(q, searchCols...))
	if apply != nil {
		query = apply(query)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	var rows []T
	err := query.
		Scopes(scopes.NewestFirst, scopes.Paginate(page, pageSize)).
		Find(&rows).
		Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	listEnvelope(ctx, total, page, pageSize, rows)
}

func adminGet[T any](preloads ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		query := db.GetDb().Model(new(T)).Scopes(scopes.WithID(params.ID))
		for _, preload := range preloads {
			query = query.Preload(preload)
		}
		var row T
		if err := query.First(&row).Error; err != nil {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": row})
	}
}

func adminDelete[T any]() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		res := db.GetDb().Delete(new(T), params.ID)
		if res.Error != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}
		if res.RowsAffected == 0 {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
	}
}

func adminUpdate[T any](ctx *gin.Context, allowed func(body map[string]any) map[string]any) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.Status(http.StatusBadRequest)
		return
	}
	var body map[string]any
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	updates := allowed(body)
	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "no updatable fields"})
		return
	}
	res := db.GetDb().Model(new(T)).Scopes(scopes.WithID(params.ID)).Updates(updates)
	if res.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	if res.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
		return
	}
	var row T
	if err := db.GetDb().Model(new(T)).Scopes(scopes.WithID(params.ID)).First(&row).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": row})
}

// pick copies the whitelisted keys from an arbitrary JSON body into a gorm
// updates map.
func pick(body map[string]any, jsonToColumn map[string]string) map[string]any {
	updates := map[string]any{}
	for key, col := range jsonToColumn {
		if v, ok := body[key]; ok {
			updates[col] = v
		}
	}
	return updates
}

func adminCategoryHandlers(g *gin.RouterGroup) {
	g.
		GET("/categories", func(ctx *gin.Context) {
			adminList[models.Category](ctx, []string{"name", "slug"}, nil)
		}).
		GET("/categories/:id", adminGet[models.Category]()).
		POST("/categories", func(ctx *gin.Context) {
			var body types.CreateCategoryRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			category := models.Category{
				Name:        body.Name,
				Slug:        slug.Make(body.Name),
				Description: body.Description,
			}
			if err := db.GetDb().Create(&category).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": category})
		}).
		PUT("/categories/:id", func(ctx *gin.Context) {
			adminUpdate[models.Category](ctx, func(body map[string]any) map[string]any {
				updates := pick(body, map[string]string{
					"name":        "name",
					"description": "description",
				})
				if name, ok := updates["name"].(string); ok {
					updates["slug"] = slug.Make(name)
				}
				return updates
			})
		}).
		DELETE("/categories/:id", adminDelete[models.Category]())
}

func adminEventHandlers(g *gin.RouterGroup) {
	g.
		GET("/events", func(ctx *gin.Context) {
			adminList[models.Event](ctx, []string{"title", "name", "location"}, func(q *gorm.DB) *gorm.DB {
				if categoryId := ctx.Query("categoryId"); categoryId != "" {
					q = q.Where("category_id = ?", categoryId)
				}
				if published := ctx.Query("published"); published != "" {
					q = q.Where("published = ?", published == "true")
				}
				return q
			}, "Category")
		}).
		GET("/events/:id", adminGet[models.Event]("Category", "TicketTypes", "Performers")).
		POST("/events", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			startTime, err := time.Parse(config.TIME_PARSE_FORMAT, body.StartTime)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			endTime, err := time.Parse(config.TIME_PARSE_FORMAT, body.EndTime)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			event := models.Event{
				Title:       body.Title,
				Name:        body.Name,
				Description: body.Description,
				Location:    body.Location,
				StartTime:   &startTime,
				EndTime:     &endTime,
				BannerURL:   body.BannerURL,
				CategoryID:  body.CategoryID,
				BasePrice:   body.BasePrice,
				IsHot:       body.IsHot,
				IsNew:       body.IsNew,
				Published:   body.Published,
			}
			if err := db.GetDb().Create(&event).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": event})
		}).
		PUT("/events/:id", func(ctx *gin.Context) {
			adminUpdate[models.Event](ctx, func(body map[string]any) map[string]any {
				return pick(body, map[string]string{
					"title":       "title",
					"name":        "name",
					"description": "description",
					"location":    "location",
					"bannerUrl":   "banner_url",
					"categoryId":  "category_id",
					"basePrice":   "base_price",
					"isHot":       "is_hot",
					"isNew":       "is_new",
					"published":   "published",
				})
			})
		}).
		DELETE("/events/:id", adminDelete[models.Event]())
}

func adminPerformerHandlers(g *gin.RouterGroup) {
	g.
		GET("/performers", func(ctx *gin.Context) {
			adminList[models.Performer](ctx, []string{"stage_name", "full_name"}, nil)
		}).
		GET("/performers/:id", adminGet[models.Performer]()).
		POST("/performers", func(ctx *gin.Context) {
			var body types.CreatePerformerRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			performer := models.Performer{
				StageName: body.StageName,
				Slug:      slug.Make(body.StageName),
				FullName:  body.FullName,
				AvatarURL: body.AvatarURL,
				Bio:       body.Bio,
			}
			if err := db.GetDb().Create(&performer).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": performer})
		}).
		PUT("/performers/:id", func(ctx *gin.Context) {
			adminUpdate[models.Performer](ctx, func(body map[string]any) map[string]any {
				updates := pick(body, map[string]string{
					"stageName": "stage_name",
					"fullName":  "full_name",
					"avatarUrl": "avatar_url",
					"bio":       "bio",
				})
				if name, ok := updates["stage_name"].(string); ok {
					updates["slug"] = slug.Make(name)
				}
				return updates
			})
		}).
		DELETE("/performers/:id", adminDelete[models.Performer]())
}

func adminTicketTypeHandlers(g *gin.RouterGroup) {
	g.
		GET("/ticket-types", func(ctx *gin.Context) {
			adminList[models.TicketType](ctx, []string{"name"}, func(q *gorm.DB) *gorm.DB {
				if eventId := ctx.Query("eventId"); eventId != "" {
					q = q.Where("event_id = ?", eventId)
				}
				return q
			}, "Event")
		}).
		GET("/ticket-types/:id", adminGet[models.TicketType]("Event")).
		POST("/ticket-types", func(ctx *gin.Context) {
			var body types.CreateTicketTypeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			tt := models.TicketType{
				EventID:       body.EventID,
				Name:          body.Name,
				Price:         body.Price,
				TotalQuantity: body.TotalQuantity,
				PerOrderLimit: body.PerOrderLimit,
			}
			if err := db.GetDb().Create(&tt).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": tt})
		}).
		PUT("/ticket-types/:id", func(ctx *gin.Context) {
			// SoldQuantity is workflow-owned and not editable here.
			adminUpdate[models.TicketType](ctx, func(body map[string]any) map[string]any {
				return pick(body, map[string]string{
					"name":          "name",
					"price":         "price",
					"totalQuantity": "total_quantity",
					"perOrderLimit": "per_order_limit",
				})
			})
		}).
		DELETE("/ticket-types/:id", adminDelete[models.TicketType]())
}

func adminOrderHandlers(g *gin.RouterGroup) {
	g.
		GET("/orders", func(ctx *gin.Context) {
			adminList[models.Order](ctx, []string{"order_code"}, func(q *gorm.DB) *gorm.DB {
				var filters types.OrderQueryFilters
				_ = ctx.ShouldBindQuery(&filters)
				if filters.Status != "" {
					q = q.Where("status = ?", filters.Status)
				}
				if filters.PaymentStatus != "" {
					q = q.Where("payment_status = ?", filters.PaymentStatus)
				}
				return q
			}, "User")
		}).
		GET("/orders/:id", adminGet[models.Order]("User", "Items", "Items.Event", "Items.TicketType", "Transactions")).
		PUT("/orders/:id", func(ctx *gin.Context) {
			adminUpdate[models.Order](ctx, func(body map[string]any) map[string]any {
				return pick(body, map[string]string{
					"status":        "status",
					"paymentStatus": "payment_status",
					"paymentMethod": "payment_method",
					"note":          "note",
				})
			})
		}).
		DELETE("/orders/:id", adminDelete[models.Order]())
}

func adminTicketHandlers(g *gin.RouterGroup) {
	g.
		GET("/tickets", func(ctx *gin.Context) {
			adminList[models.Ticket](ctx, []string{"ticket_code"}, func(q *gorm.DB) *gorm.DB {
				if status := ctx.Query("status"); status != "" {
					q = q.Where("status = ?", status)
				}
				if eventId := ctx.Query("eventId"); eventId != "" {
					q = q.Where("event_id = ?", eventId)
				}
				return q
			}, "Event", "TicketType")
		}).
		GET("/tickets/:id", adminGet[models.Ticket]("Event", "TicketType", "OrderItem")).
		PUT("/tickets/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body struct {
				Status types.TicketStatus `json:"status" binding:"required,oneof=Issued Used Cancelled"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			updates := map[string]any{"status": body.Status}
			if body.Status == types.TICKET_CANCELLED {
				updates["cancelled_at"] = time.Now()
			}
			res := db.GetDb().Model(&models.Ticket{}).Scopes(scopes.WithID(params.ID)).Updates(updates)
			if res.Error != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "updated"})
		}).
		DELETE("/tickets/:id", adminDelete[models.Ticket]()).
		POST("/tickets/scan", func(ctx *gin.Context) {
			var body types.ScanTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			outcome, err := ticketSvc.Scan(body)
			if err != nil {
				mapServiceError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": outcome})
		})
}

func adminUserHandlers(g *gin.RouterGroup) {
	g.
		GET("/users", func(ctx *gin.Context) {
			adminList[models.User](ctx, []string{"username", "full_name", "email"}, func(q *gorm.DB) *gorm.DB {
				if role := ctx.Query("role"); role != "" {
					q = q.Where("role = ?", role)
				}
				return q
			})
		}).
		GET("/users/:id", adminGet[models.User]()).
		POST("/users", func(ctx *gin.Context) {
			var body types.RegisterRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			hash, err := utils.HashPassword(body.Password)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
				return
			}
			role := types.ROLE_USER
			if ctx.Query("role") == string(types.ROLE_ADMIN) {
				role = types.ROLE_ADMIN
			}
			user := models.User{
				Username:     body.Username,
				PasswordHash: hash,
				FullName:     body.FullName,
				Email:        body.Email,
				Phone:        body.Phone,
				Role:         role,
			}
			if err := db.GetDb().Create(&user).Error; err != nil {
				ctx.JSON(http.StatusConflict, gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": user})
		}).
		PUT("/users/:id", func(ctx *gin.Context) {
			adminUpdate[models.User](ctx, func(body map[string]any) map[string]any {
				return pick(body, map[string]string{
					"fullName":      "full_name",
					"email":         "email",
					"phone":         "phone",
					"role":          "role",
					"emailVerified": "email_verified",
					"phoneVerified": "phone_verified",
				})
			})
		}).
		DELETE("/users/:id", adminDelete[models.User]())
}

func adminEventPerformerHandlers(g *gin.RouterGroup) {
	g.
		GET("/event-performers", func(ctx *gin.Context) {
			page, pageSize, _ := pageParams(ctx)
			query := db.GetDb().Model(&models.EventPerformer{})
			if eventId := ctx.Query("eventId"); eventId != "" {
				query = query.Where("event_id = ?", eventId)
			}
			var total int64
			if err := query.Count(&total).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
				return
			}
			var rows []models.EventPerformer
			if err := query.Scopes(scopes.Paginate(page, pageSize)).Find(&rows).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
				return
			}
			listEnvelope(ctx, total, page, pageSize, rows)
		}).
		POST("/event-performers", func(ctx *gin.Context) {
			var body struct {
				EventID     uint   `json:"eventId" binding:"required"`
				PerformerID uint   `json:"performerId" binding:"required"`
				RoleNote    string `json:"roleNote,omitempty"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			row := models.EventPerformer{
				EventID:     body.EventID,
				PerformerID: body.PerformerID,
				RoleNote:    body.RoleNote,
			}
			err := db.GetDb().Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": row})
		}).
		DELETE("/event-performers", func(ctx *gin.Context) {
			var params struct {
				EventID     uint `form:"eventId" binding:"required"`
				PerformerID uint `form:"performerId" binding:"required"`
			}
			if err := ctx.ShouldBindQuery(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			res := db.GetDb().
				Where("event_id = ? AND performer_id = ?", params.EventID, params.PerformerID).
				Delete(&models.EventPerformer{})
			if res.Error != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
		})
}

func adminNotificationHandlers(g *gin.RouterGroup) {
	g.
		GET("/notifications", func(ctx *gin.Context) {
			adminList[models.Notification](ctx, []string{"title", "content"}, func(q *gorm.DB) *gorm.DB {
				if userId := ctx.Query("userId"); userId != "" {
					q = q.Where("user_id = ?", userId)
				}
				return q
			})
		}).
		GET("/notifications/:id", adminGet[models.Notification]()).
		POST("/notifications", func(ctx *gin.Context) {
			var body struct {
				UserID  uint   `json:"userId" binding:"required"`
				Type    string `json:"type,omitempty"`
				Title   string `json:"title" binding:"required"`
				Content string `json:"content,omitempty"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			n := models.Notification{
				UserID:  body.UserID,
				Type:    body.Type,
				Title:   body.Title,
				Content: body.Content,
			}
			if err := db.GetDb().Create(&n).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": n})
		}).
		PUT("/notifications/:id", func(ctx *gin.Context) {
			adminUpdate[models.Notification](ctx, func(body map[string]any) map[string]any {
				return pick(body, map[string]string{
					"title":   "title",
					"content": "content",
					"isRead":  "is_read",
				})
			})
		}).
		DELETE("/notifications/:id", adminDelete[models.Notification]())
}

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	adminCategoryHandlers(g)
	adminEventHandlers(g)
	adminPerformerHandlers(g)
	adminTicketTypeHandlers(g)
	adminOrderHandlers(g)
	adminTicketHandlers(g)
	adminUserHandlers(g)
	adminEventPerformerHandlers(g)
	adminNotificationHandlers(g)
	return g
}

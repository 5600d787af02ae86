package main

import (
	"net/http"

	"bts/src/types"

	"github.com/gin-gonic/gin"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/booking", func(ctx *gin.Context) {
			var body types.CreateOrderRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			order, err := orderSvc.CreateOrder(principal(ctx), body)
			if err != nil {
				mapServiceError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": gin.H{
				"id":          order.ID,
				"orderCode":   order.OrderCode,
				"status":      order.Status,
				"totalAmount": order.TotalAmount,
			}})
		}).
		GET("/booking/my-orders", func(ctx *gin.Context) {
			orders, err := orderSvc.MyOrders(principal(ctx))
			if err != nil {
				mapServiceError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": orders, "count": len(orders)})
		}).
		GET("/booking/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			order, err := orderSvc.OrderDetail(principal(ctx), params.ID)
			if err != nil {
				mapServiceError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": order})
		}).
		PATCH("/booking/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			order, err := orderSvc.CancelOrder(principal(ctx), params.ID)
			if err != nil {
				mapServiceError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": order})
		})
	return g
}

package main

import (
	"crypto/subtle"
	"net/http"
	"os"

	"bts/src/types"

	"github.com/gin-gonic/gin"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/payments/initiate", func(ctx *gin.Context) {
			var body types.InitiatePaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			result, err := paymentSvc.Initiate(principal(ctx), body)
			if err != nil {
				mapServiceError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{
				"providerRef": result.Transaction.ProviderRef,
				"amount":      result.Transaction.Amount,
				"currency":    result.Transaction.Currency,
				"redirectUrl": result.RedirectURL,
			})
		}).
		GET("/payments/my", func(ctx *gin.Context) {
			txns, err := paymentSvc.MyPayments(principal(ctx))
			if err != nil {
				mapServiceError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": txns, "count": len(txns)})
		})
	return g
}

// paymentCallbackRoute stays outside the auth group: providers call it
// directly. When PAYMENT_CALLBACK_SECRET is set the X-Callback-Secret
// header must match.
func paymentCallbackRoute(g *gin.RouterGroup) *gin.RouterGroup {
	g.POST("/payments/callback", func(ctx *gin.Context) {
		if secret := os.Getenv("PAYMENT_CALLBACK_SECRET"); secret != "" {
			header := ctx.GetHeader("X-Callback-Secret")
			if subtle.ConstantTimeCompare([]byte(header), []byte(secret)) != 1 {
				ctx.AbortWithStatus(http.StatusUnauthorized)
				return
			}
		}
		var body types.PaymentCallbackRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		result, err := paymentSvc.ProcessCallback(body)
		if err != nil {
			mapServiceError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{
			"providerRef": result.Transaction.ProviderRef,
			"status":      result.Transaction.Status,
			"orderStatus": result.Order.Status,
			"replay":      result.Replay,
		})
	})
	return g
}

package main

import (
	"net/http"

	"bts/src/types"

	"github.com/gin-gonic/gin"
)

func ticketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/tickets/my-tickets", func(ctx *gin.Context) {
			tickets, err := ticketSvc.MyTickets(principal(ctx))
			if err != nil {
				mapServiceError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tickets, "count": len(tickets)})
		}).
		GET("/tickets/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			ticket, err := ticketSvc.TicketDetail(principal(ctx), params.ID)
			if err != nil {
				mapServiceError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		GET("/tickets/:id/download", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			ticket, err := ticketSvc.TicketDetail(principal(ctx), params.ID)
			if err != nil {
				mapServiceError(ctx, err)
				return
			}
			if ticket.QRImageURL == "" {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "no QR image for this ticket"})
				return
			}
			ctx.FileAttachment(ticket.QRImageURL, "eticket.jpeg")
		})
	return g
}

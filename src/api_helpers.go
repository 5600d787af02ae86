package main

import (
	"errors"
	"log"
	"net/http"

	"bts/src/config"
	"bts/src/middlewares"
	"bts/src/services"
	"bts/src/types"

	"github.com/gin-gonic/gin"
)

// principal pulls the authenticated caller out of the request context. The
// auth middleware guarantees it is present on protected routes.
func principal(ctx *gin.Context) types.Principal {
	p, ok := middlewares.GetPrincipal(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
	return p
}

func mapServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrSoldOut),
		errors.Is(err, services.ErrOrderNotPayable),
		errors.Is(err, services.ErrOrderNotCancelable),
		errors.Is(err, services.ErrAmountMismatch),
		errors.Is(err, services.ErrPasswordMismatch):
		ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrUsernameTaken):
		ctx.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	default:
		log.Printf("Could not complete request: %s\n", err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

func pageParams(ctx *gin.Context) (page int, pageSize int, q string) {
	var params types.ListQueryParams
	_ = ctx.ShouldBindQuery(&params)
	page = params.Page
	pageSize = params.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = config.DEFAULT_PAGE_SIZE
	}
	if pageSize > config.MAX_PAGE_SIZE {
		pageSize = config.MAX_PAGE_SIZE
	}
	return page, pageSize, params.Q
}

func listEnvelope(ctx *gin.Context, total int64, page, pageSize int, data any) {
	ctx.JSON(http.StatusOK, gin.H{
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
		"data":     data,
	})
}

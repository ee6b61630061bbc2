package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/convocatorias/portal/internal/app/models/dto"
	"github.com/convocatorias/portal/internal/middleware"
	"github.com/convocatorias/portal/internal/pkg/store"
)

// ConfirmationController resolves pending deletions of every resource
type ConfirmationController struct {
	confirmations *store.Confirmations
}

// NewConfirmationController creates a new ConfirmationController
func NewConfirmationController(confirmations *store.Confirmations) *ConfirmationController {
	return &ConfirmationController{confirmations: confirmations}
}

// Resolve confirms or cancels the deletion of the token in the path
func (c *ConfirmationController) Resolve(ctx *gin.Context) {
	var req dto.ConfirmRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	outcome, err := c.confirmations.Resolve(ctx.Request.Context(), ctx.Param("token"), *req.Confirm)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.ConfirmResultResponse{Outcome: string(outcome)}))
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/convocatorias/portal/internal/app/models/dto"
	"github.com/convocatorias/portal/internal/app/services"
	"github.com/convocatorias/portal/internal/middleware"
	"github.com/convocatorias/portal/internal/pkg/apperrors"
)

// imageFormField is the multipart field carrying an uploaded image
const imageFormField = "image"

// CallController serves the call operations beyond plain CRUD
type CallController struct {
	calls *services.CallService
}

// NewCallController creates a new CallController
func NewCallController(calls *services.CallService) *CallController {
	return &CallController{calls: calls}
}

// Detail returns a call with resolved names and its tabs
func (c *CallController) Detail(ctx *gin.Context) {
	detail, err := c.calls.Detail(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(detail))
}

// Click counts one visit to a call
func (c *CallController) Click(ctx *gin.Context) {
	call, err := c.calls.Click(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.ClickResponse{ID: call.ID, ClickCount: call.ClickCount}))
}

// UploadImage replaces the image of a call with the uploaded file
func (c *CallController) UploadImage(ctx *gin.Context) {
	header, err := ctx.FormFile(imageFormField)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("image file is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	call, err := c.calls.UploadImage(ctx.Request.Context(), ctx.Param("id"),
		header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.ImageUploadResponse{ID: call.ID, ImageURL: call.ImageURL}))
}

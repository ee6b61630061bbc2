package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/convocatorias/portal/internal/app/models/dto"
	"github.com/convocatorias/portal/internal/app/services"
	"github.com/convocatorias/portal/internal/middleware"
)

// PreferencesController serves the dark mode and font size preferences
type PreferencesController struct {
	preferences *services.PreferencesService
}

// NewPreferencesController creates a new PreferencesController
func NewPreferencesController(preferences *services.PreferencesService) *PreferencesController {
	return &PreferencesController{preferences: preferences}
}

type preferenceAction func(ctx context.Context, owner string) (dto.PreferencesResponse, error)

func (c *PreferencesController) handle(action preferenceAction) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		owner := middleware.Owner(ctx)
		if owner == "" {
			middleware.HandleAPIError(ctx, errOwnerRequired)
			return
		}

		prefs, err := action(ctx.Request.Context(), owner)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewAPIResponse(prefs))
	}
}

// Get returns the preferences
func (c *PreferencesController) Get() gin.HandlerFunc {
	return c.handle(c.preferences.Get)
}

// ToggleDarkMode flips dark mode
func (c *PreferencesController) ToggleDarkMode() gin.HandlerFunc {
	return c.handle(c.preferences.ToggleDarkMode)
}

// IncreaseFontSize grows the font one step
func (c *PreferencesController) IncreaseFontSize() gin.HandlerFunc {
	return c.handle(c.preferences.IncreaseFontSize)
}

// DecreaseFontSize shrinks the font one step
func (c *PreferencesController) DecreaseFontSize() gin.HandlerFunc {
	return c.handle(c.preferences.DecreaseFontSize)
}

// ResetFontSize restores the default font size
func (c *PreferencesController) ResetFontSize() gin.HandlerFunc {
	return c.handle(c.preferences.ResetFontSize)
}

// Update sets the preferences given in the body
func (c *PreferencesController) Update(ctx *gin.Context) {
	var req dto.UpdatePreferencesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.handle(func(reqCtx context.Context, owner string) (dto.PreferencesResponse, error) {
		return c.preferences.Update(reqCtx, owner, req)
	})(ctx)
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/convocatorias/portal/internal/app/models/dto"
	"github.com/convocatorias/portal/internal/app/services"
	"github.com/convocatorias/portal/internal/middleware"
	"github.com/convocatorias/portal/internal/pkg/apperrors"
)

var errOwnerRequired = apperrors.NewBadRequestError("authentication or the " + middleware.HeaderClientID + " header is required")

// FavoritesController serves the favorite calls of the current owner
type FavoritesController struct {
	favorites *services.FavoritesService
}

// NewFavoritesController creates a new FavoritesController
func NewFavoritesController(favorites *services.FavoritesService) *FavoritesController {
	return &FavoritesController{favorites: favorites}
}

// List returns the favorite call ids
func (c *FavoritesController) List(ctx *gin.Context) {
	owner := middleware.Owner(ctx)
	if owner == "" {
		middleware.HandleAPIError(ctx, errOwnerRequired)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FavoritesResponse{IDs: c.favorites.List(owner)}))
}

// Toggle marks or unmarks the call of the path as favorite
func (c *FavoritesController) Toggle(ctx *gin.Context) {
	owner := middleware.Owner(ctx)
	if owner == "" {
		middleware.HandleAPIError(ctx, errOwnerRequired)
		return
	}

	id := ctx.Param("id")
	on, err := c.favorites.Toggle(owner, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FavoriteToggleResponse{ID: id, Favorite: on}))
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/convocatorias/portal/internal/app/models/dto"
	"github.com/convocatorias/portal/internal/app/services"
	"github.com/convocatorias/portal/internal/middleware"
	"github.com/convocatorias/portal/internal/pkg/helpers"
)

// ExplorerController serves the public catalog pages
type ExplorerController struct {
	explorer *services.ExplorerService
	home     *services.HomeService
}

// NewExplorerController creates a new ExplorerController
func NewExplorerController(explorer *services.ExplorerService, home *services.HomeService) *ExplorerController {
	return &ExplorerController{
		explorer: explorer,
		home:     home,
	}
}

// Explorer returns one page of calls: ?view=grid|list|table|mosaic&q=&page=&size=
func (c *ExplorerController) Explorer(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx, c.explorer.PageSize())

	resp, info := c.explorer.Page(services.ExplorerQuery{
		Owner: middleware.Owner(ctx),
		View:  ctx.Query("view"),
		Term:  ctx.Query("q"),
		Page:  page,
		Size:  size,
	})
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp).WithPagination(info))
}

// Home returns the landing page data
func (c *ExplorerController) Home(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(c.home.Home()))
}

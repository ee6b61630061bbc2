// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/convocatorias/portal/internal/app/models/dto"
	"github.com/convocatorias/portal/internal/app/services"
	"github.com/convocatorias/portal/internal/middleware"
	"github.com/convocatorias/portal/internal/pkg/helpers"
	"github.com/convocatorias/portal/internal/pkg/store"
)

// ResourceController serves the CRUD routes of one catalog resource
type ResourceController[T store.Entity[T]] struct {
	catalog *services.CatalogService[T]
	present func(T) interface{}
}

// ResourceOption configures a ResourceController
type ResourceOption[T store.Entity[T]] func(*ResourceController[T])

// WithPresenter converts records before they are written to a response
func WithPresenter[T store.Entity[T]](present func(T) interface{}) ResourceOption[T] {
	return func(c *ResourceController[T]) {
		c.present = present
	}
}

// NewResourceController creates a new ResourceController
func NewResourceController[T store.Entity[T]](catalog *services.CatalogService[T], opts ...ResourceOption[T]) *ResourceController[T] {
	c := &ResourceController[T]{
		catalog: catalog,
		present: func(item T) interface{} { return item },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resource returns the resource name, used as the route path
func (c *ResourceController[T]) Resource() string {
	return c.catalog.Resource()
}

func (c *ResourceController[T]) presentAll(items []T) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, c.present(item))
	}
	return out
}

// List returns the records matching ?q=; ?page= switches to a paged response
func (c *ResourceController[T]) List(ctx *gin.Context) {
	items := c.catalog.List(ctx.Query("q"))

	if ctx.Query("page") == "" {
		ctx.JSON(http.StatusOK, dto.NewAPIResponse(c.presentAll(items)))
		return
	}

	page, size := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)
	slice, info := helpers.Paginate(items, page, size)
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(c.presentAll(slice)).WithPagination(info))
}

// GetByID returns one record
func (c *ResourceController[T]) GetByID(ctx *gin.Context) {
	item, err := c.catalog.Get(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(c.present(item)))
}

// Create stores a new record; any id in the body is replaced
func (c *ResourceController[T]) Create(ctx *gin.Context) {
	var draft T
	if !middleware.BindJSON(ctx, &draft) {
		return
	}

	item, err := c.catalog.Create(ctx.Request.Context(), draft)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(c.present(item)))
}

// Update replaces the record with the id of the path
func (c *ResourceController[T]) Update(ctx *gin.Context) {
	var draft T
	if !middleware.BindJSON(ctx, &draft) {
		return
	}

	item, err := c.catalog.Update(ctx.Request.Context(), ctx.Param("id"), draft)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(c.present(item)))
}

// Delete removes a record at once
func (c *ResourceController[T]) Delete(ctx *gin.Context) {
	if err := c.catalog.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Record deleted"}))
}

// RequestDelete starts a two-step deletion and returns its confirmation token
func (c *ResourceController[T]) RequestDelete(ctx *gin.Context) {
	pending, err := c.catalog.RequestDelete(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, dto.NewAPIResponse(dto.ConfirmationResponse{
		Token:     pending.Token,
		Resource:  pending.Resource,
		ID:        pending.ID,
		Message:   "Confirm to delete the record",
		ExpiresAt: pending.ExpiresAt,
	}))
}

// RegisterRoutes mounts the read routes on read and the write routes on write
func (c *ResourceController[T]) RegisterRoutes(read, write gin.IRoutes) {
	path := "/" + c.Resource()
	read.GET(path, c.List)
	read.GET(path+"/:id", c.GetByID)
	write.POST(path, c.Create)
	write.PUT(path+"/:id", c.Update)
	write.DELETE(path+"/:id", c.Delete)
	write.POST(path+"/:id/delete-requests", c.RequestDelete)
}

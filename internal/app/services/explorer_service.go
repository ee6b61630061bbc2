package services

import (
	"strings"

	"github.com/convocatorias/portal/internal/app/lookups"
	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/app/models/dto"
	"github.com/convocatorias/portal/internal/pkg/helpers"
	"github.com/convocatorias/portal/internal/pkg/store"
)

// Explorer view modes.
const (
	ViewGrid   = "grid"
	ViewList   = "list"
	ViewTable  = "table"
	ViewMosaic = "mosaic"
)

// NormalizeView maps a requested view mode onto a known one; unknown modes fall back to grid.
func NormalizeView(view string) string {
	switch v := strings.ToLower(strings.TrimSpace(view)); v {
	case ViewList, ViewTable, ViewMosaic:
		return v
	default:
		return ViewGrid
	}
}

// ExplorerService pages through the whole call list.
type ExplorerService struct {
	calls        *store.Store[models.Call]
	favorites    *FavoritesService
	institutions *lookups.Index
	pageSize     int
}

// NewExplorerService creates a new explorer service
func NewExplorerService(calls *store.Store[models.Call], favorites *FavoritesService, institutions *lookups.Index, pageSize int) *ExplorerService {
	if pageSize <= 0 {
		pageSize = helpers.DefaultPageSize
	}
	return &ExplorerService{
		calls:        calls,
		favorites:    favorites,
		institutions: institutions,
		pageSize:     pageSize,
	}
}

// PageSize returns the default page size
func (s *ExplorerService) PageSize() int {
	return s.pageSize
}

// ExplorerQuery selects one explorer page.
type ExplorerQuery struct {
	Owner string
	View  string
	Term  string
	Page  int
	Size  int
}

// Page returns one page of calls matching q.Term, in insertion order
func (s *ExplorerService) Page(q ExplorerQuery) (dto.ExplorerResponse, dto.PaginationInfo) {
	size := q.Size
	if size <= 0 {
		size = s.pageSize
	}

	page, info := helpers.Paginate(s.calls.List(q.Term), q.Page, size)

	favs := s.favorites.Set(q.Owner)
	items := make([]dto.ExplorerItem, 0, len(page))
	for _, call := range page {
		items = append(items, dto.ExplorerItem{
			Call:            call,
			InstitutionName: s.institutions.Name(call.InstitutionID),
			Favorite:        favs[call.ID],
		})
	}

	return dto.ExplorerResponse{
		View:  NormalizeView(q.View),
		Query: q.Term,
		Items: items,
	}, info
}

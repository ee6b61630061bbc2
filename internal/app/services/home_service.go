package services

import (
	"sort"

	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/app/models/dto"
	"github.com/convocatorias/portal/internal/pkg/store"
)

const homeListSize = 6

// Counter reports the size of a collection.
type Counter interface {
	Len() int
}

// HomeService assembles the landing page.
type HomeService struct {
	calls    *store.Store[models.Call]
	lines    *store.Store[models.Line]
	counters map[string]Counter
}

// NewHomeService creates a new home service; counters are keyed by resource name
func NewHomeService(calls *store.Store[models.Call], lines *store.Store[models.Line], counters map[string]Counter) *HomeService {
	return &HomeService{
		calls:    calls,
		lines:    lines,
		counters: counters,
	}
}

// Home returns counts, the latest and most clicked calls, and the lines
func (s *HomeService) Home() dto.HomeResponse {
	counts := make(map[string]int, len(s.counters))
	for name, c := range s.counters {
		counts[name] = c.Len()
	}

	calls := s.calls.Snapshot()

	latest := append([]models.Call(nil), calls...)
	// ISO dates sort lexically
	sort.SliceStable(latest, func(i, j int) bool { return latest[i].OpenDate > latest[j].OpenDate })

	clicked := append([]models.Call(nil), calls...)
	sort.SliceStable(clicked, func(i, j int) bool { return clicked[i].ClickCount > clicked[j].ClickCount })

	return dto.HomeResponse{
		Counts:      counts,
		Latest:      head(latest, homeListSize),
		MostClicked: head(clicked, homeListSize),
		Lines:       s.lines.Snapshot(),
	}
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

package console

import (
	"fmt"
	"sync"

	"github.com/convocatorias/portal/internal/app/models/dto"
	"github.com/convocatorias/portal/internal/app/services"
	"github.com/convocatorias/portal/internal/pkg/apperrors"
)

// DetailView is the read-only call viewer with its tabs.
type DetailView struct {
	detail dto.CallDetailResponse

	mu     sync.Mutex
	active int
}

// OpenDetail loads call id with its names resolved; the first tab is active
func OpenDetail(calls *services.CallService, id string) (*DetailView, error) {
	detail, err := calls.Detail(id)
	if err != nil {
		return nil, err
	}
	return &DetailView{detail: detail}, nil
}

// Detail returns the resolved call
func (v *DetailView) Detail() dto.CallDetailResponse {
	return v.detail
}

// Tabs returns every tab in display order
func (v *DetailView) Tabs() []dto.DetailTab {
	return v.detail.Tabs
}

// ActiveTab returns the visible tab
func (v *DetailView) ActiveTab() dto.DetailTab {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.detail.Tabs[v.active]
}

// SetTab switches to the tab with the given key
func (v *DetailView) SetTab(key string) error {
	for i, tab := range v.detail.Tabs {
		if tab.Key == key {
			v.mu.Lock()
			v.active = i
			v.mu.Unlock()
			return nil
		}
	}
	return apperrors.NewBadRequestError(fmt.Sprintf("unknown tab %q", key))
}

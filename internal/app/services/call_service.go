package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/convocatorias/portal/internal/app/lookups"
	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/app/models/dto"
	"github.com/convocatorias/portal/internal/pkg/apperrors"
	"github.com/convocatorias/portal/internal/pkg/filestorage"
)

// Detail tab keys, in display order.
const (
	TabDescription = "description"
	TabObjectives  = "objectives"
	TabResources   = "resources"
	TabNotes       = "notes"
	TabMoreInfo    = "more-info"
)

// CallService adds the call-specific operations on top of the catalog.
type CallService struct {
	*CatalogService[models.Call]
	lookups  lookups.Set
	images   filestorage.FileStorage
	maxImage int64
	logger   zerolog.Logger

	// Serializes read-modify-write updates such as click counting
	mu sync.Mutex
}

// NewCallService creates a new call service
func NewCallService(catalog *CatalogService[models.Call], sets lookups.Set, images filestorage.FileStorage, maxImageBytes int64, logger zerolog.Logger) *CallService {
	return &CallService{
		CatalogService: catalog,
		lookups:        sets,
		images:         images,
		maxImage:       maxImageBytes,
		logger:         logger,
	}
}

// Detail returns a call with its foreign keys resolved and its tabs built
func (s *CallService) Detail(id string) (dto.CallDetailResponse, error) {
	call, err := s.Get(id)
	if err != nil {
		return dto.CallDetailResponse{}, err
	}
	return s.DetailOf(call), nil
}

// DetailOf builds the detail view of call
func (s *CallService) DetailOf(call models.Call) dto.CallDetailResponse {
	return dto.CallDetailResponse{
		Call:               call,
		InstitutionName:    s.lookups.Institutions.Name(call.InstitutionID),
		LineName:           s.lookups.Lines.Name(call.LineID),
		TargetAudienceName: s.lookups.TargetAudiences.Name(call.TargetAudienceID),
		InterestName:       s.lookups.Interests.Name(call.InterestID),
		Tabs:               DetailTabs(call),
	}
}

// DetailTabs returns the tabs of the call detail viewer
func DetailTabs(call models.Call) []dto.DetailTab {
	moreInfo := fmt.Sprintf("Apertura: %s\nCierre: %s\nPágina: %s\nEnlace: %s",
		orPlaceholder(call.OpenDate), orPlaceholder(call.CloseDate),
		orPlaceholder(call.PageName), orPlaceholder(firstNonEmpty(call.PageURL, call.Link)))

	return []dto.DetailTab{
		{Key: TabDescription, Title: "Descripción", Content: call.Description},
		{Key: TabObjectives, Title: "Objetivos", Content: call.Objective},
		{Key: TabResources, Title: "Recursos", Content: call.Resources},
		{Key: TabNotes, Title: "Notas", Content: call.Notes},
		{Key: TabMoreInfo, Title: "Más información", Content: moreInfo},
	}
}

// Click increments the click count of a call
func (s *CallService) Click(ctx context.Context, id string) (models.Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	call, err := s.Get(id)
	if err != nil {
		return models.Call{}, err
	}
	call.ClickCount++

	// Clicks bypass validation so incomplete records can still be counted
	return s.Store().Update(ctx, id, call)
}

// UploadImage stores a new image for a call and replaces the previous one
func (s *CallService) UploadImage(ctx context.Context, id, filename, contentType string, size int64, r io.Reader) (models.Call, error) {
	if _, err := filestorage.ImageExtension(contentType); err != nil {
		return models.Call{}, apperrors.NewBadRequestError(err.Error())
	}
	if s.maxImage > 0 && size > s.maxImage {
		return models.Call{}, apperrors.NewBadRequestError(fmt.Sprintf("image exceeds %d bytes", s.maxImage))
	}
	if _, err := s.Get(id); err != nil {
		return models.Call{}, err
	}

	url, err := s.images.Save(ctx, models.ResourceCalls, filename, contentType, r)
	if err != nil {
		return models.Call{}, fmt.Errorf("error storing image: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	call, err := s.Get(id)
	if err != nil {
		_ = s.images.Delete(ctx, url)
		return models.Call{}, err
	}
	previous := call.ImageURL
	call.ImageURL = url

	updated, err := s.Store().Update(ctx, id, call)
	if err != nil {
		_ = s.images.Delete(ctx, url)
		return models.Call{}, err
	}

	if previous != "" {
		if err := s.images.Delete(ctx, previous); err != nil {
			s.logger.Warn().Err(err).Str("url", previous).Msg("Failed to delete previous image")
		}
	}
	return updated, nil
}

func orPlaceholder(s string) string {
	if s == "" {
		return lookups.Placeholder
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

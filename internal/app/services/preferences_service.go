package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/convocatorias/portal/internal/app/models/dto"
	"github.com/convocatorias/portal/internal/app/repositories"
)

// Preference keys and font size bounds.
const (
	PrefDarkMode = "darkMode"
	PrefFontSize = "fontSize"

	DefaultFontSize = 16
	MinFontSize     = 10
	MaxFontSize     = 28
	FontSizeStep    = 2
)

// PreferencesService manages the dark mode flag and font size of each owner.
// Every change is written back immediately.
type PreferencesService struct {
	repo   repositories.PreferenceRepository
	logger zerolog.Logger

	// owner -> *sync.Mutex, held across each read-modify-write
	locks sync.Map
}

// NewPreferencesService creates a new preferences service
func NewPreferencesService(repo repositories.PreferenceRepository, logger zerolog.Logger) *PreferencesService {
	return &PreferencesService{
		repo:   repo,
		logger: logger,
	}
}

// ClampFontSize keeps size inside [MinFontSize, MaxFontSize]
func ClampFontSize(size int) int {
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

// Get returns the preferences of owner; missing or unreadable values take their defaults
func (s *PreferencesService) Get(ctx context.Context, owner string) (dto.PreferencesResponse, error) {
	values, err := s.repo.Get(ctx, owner)
	if err != nil {
		return dto.PreferencesResponse{}, fmt.Errorf("error loading preferences: %w", err)
	}

	prefs := dto.PreferencesResponse{FontSize: DefaultFontSize}
	if v, ok := values[PrefDarkMode]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			prefs.DarkMode = b
		}
	}
	if v, ok := values[PrefFontSize]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			prefs.FontSize = ClampFontSize(n)
		}
	}
	return prefs, nil
}

// ToggleDarkMode flips the dark mode flag
func (s *PreferencesService) ToggleDarkMode(ctx context.Context, owner string) (dto.PreferencesResponse, error) {
	unlock := s.lock(owner)
	defer unlock()

	prefs, err := s.Get(ctx, owner)
	if err != nil {
		return prefs, err
	}
	prefs.DarkMode = !prefs.DarkMode
	return prefs, s.setDarkMode(ctx, owner, prefs.DarkMode)
}

// IncreaseFontSize grows the font by one step, up to MaxFontSize
func (s *PreferencesService) IncreaseFontSize(ctx context.Context, owner string) (dto.PreferencesResponse, error) {
	return s.changeFontSize(ctx, owner, func(size int) int { return size + FontSizeStep })
}

// DecreaseFontSize shrinks the font by one step, down to MinFontSize
func (s *PreferencesService) DecreaseFontSize(ctx context.Context, owner string) (dto.PreferencesResponse, error) {
	return s.changeFontSize(ctx, owner, func(size int) int { return size - FontSizeStep })
}

// ResetFontSize restores DefaultFontSize
func (s *PreferencesService) ResetFontSize(ctx context.Context, owner string) (dto.PreferencesResponse, error) {
	return s.changeFontSize(ctx, owner, func(int) int { return DefaultFontSize })
}

// Update sets the given preferences; nil fields are left unchanged
func (s *PreferencesService) Update(ctx context.Context, owner string, req dto.UpdatePreferencesRequest) (dto.PreferencesResponse, error) {
	unlock := s.lock(owner)
	defer unlock()

	prefs, err := s.Get(ctx, owner)
	if err != nil {
		return prefs, err
	}
	if req.DarkMode != nil {
		prefs.DarkMode = *req.DarkMode
		if err := s.setDarkMode(ctx, owner, prefs.DarkMode); err != nil {
			return prefs, err
		}
	}
	if req.FontSize != nil {
		prefs.FontSize = ClampFontSize(*req.FontSize)
		if err := s.setFontSize(ctx, owner, prefs.FontSize); err != nil {
			return prefs, err
		}
	}
	return prefs, nil
}

func (s *PreferencesService) lock(owner string) func() {
	m, _ := s.locks.LoadOrStore(owner, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *PreferencesService) changeFontSize(ctx context.Context, owner string, next func(int) int) (dto.PreferencesResponse, error) {
	unlock := s.lock(owner)
	defer unlock()

	prefs, err := s.Get(ctx, owner)
	if err != nil {
		return prefs, err
	}
	prefs.FontSize = ClampFontSize(next(prefs.FontSize))
	return prefs, s.setFontSize(ctx, owner, prefs.FontSize)
}

func (s *PreferencesService) setDarkMode(ctx context.Context, owner string, on bool) error {
	if err := s.repo.Set(ctx, owner, PrefDarkMode, strconv.FormatBool(on)); err != nil {
		return fmt.Errorf("error saving preference: %w", err)
	}
	s.logger.Debug().Str("owner", owner).Bool("darkMode", on).Msg("Preference saved")
	return nil
}

func (s *PreferencesService) setFontSize(ctx context.Context, owner string, size int) error {
	if err := s.repo.Set(ctx, owner, PrefFontSize, strconv.Itoa(size)); err != nil {
		return fmt.Errorf("error saving preference: %w", err)
	}
	s.logger.Debug().Str("owner", owner).Int("fontSize", size).Msg("Preference saved")
	return nil
}

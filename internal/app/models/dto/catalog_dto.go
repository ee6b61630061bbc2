package dto

import (
	"time"

	"github.com/convocatorias/portal/internal/app/models"
)

// ConfirmationResponse is returned when a deletion is requested; the
// deletion only happens once the token is confirmed.
type ConfirmationResponse struct {
	Token     string    `json:"token"`
	Resource  string    `json:"resource"`
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ConfirmRequest answers a pending confirmation
type ConfirmRequest struct {
	Confirm *bool `json:"confirm" binding:"required"`
}

// ConfirmResultResponse reports how a confirmation was resolved
type ConfirmResultResponse struct {
	Outcome string `json:"outcome"`
}

// CallDetailResponse is a call with its foreign keys resolved to names
type CallDetailResponse struct {
	Call               models.Call `json:"call"`
	InstitutionName    string      `json:"institutionName"`
	LineName           string      `json:"lineName"`
	TargetAudienceName string      `json:"targetAudienceName"`
	InterestName       string      `json:"interestName"`
	Tabs               []DetailTab `json:"tabs"`
}

// DetailTab is one tab of the call detail viewer
type DetailTab struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ExplorerItem is a call as shown in the explorer
type ExplorerItem struct {
	models.Call
	InstitutionName string `json:"institutionName"`
	Favorite        bool   `json:"favorite"`
}

// ExplorerResponse is one page of the explorer
type ExplorerResponse struct {
	View  string         `json:"view"`
	Query string         `json:"query"`
	Items []ExplorerItem `json:"items"`
}

// ClickResponse reports the click count after a click
type ClickResponse struct {
	ID         string `json:"id"`
	ClickCount int    `json:"clickCount"`
}

// FavoritesResponse lists the favorite call ids of an owner
type FavoritesResponse struct {
	IDs []string `json:"ids"`
}

// FavoriteToggleResponse reports the state of one favorite after a toggle
type FavoriteToggleResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

// HomeResponse feeds the landing page
type HomeResponse struct {
	Counts      map[string]int `json:"counts"`
	Latest      []models.Call  `json:"latest"`
	MostClicked []models.Call  `json:"mostClicked"`
	Lines       []models.Line  `json:"lines"`
}

// ImageUploadResponse is returned after a call image upload
type ImageUploadResponse struct {
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl"`
}

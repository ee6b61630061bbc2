package dto

// PreferencesResponse holds the presentation preferences of an owner
type PreferencesResponse struct {
	DarkMode bool `json:"darkMode"`
	FontSize int  `json:"fontSize"`
}

// UpdatePreferencesRequest sets preferences directly; omitted fields are kept
type UpdatePreferencesRequest struct {
	DarkMode *bool `json:"darkMode"`
	FontSize *int  `json:"fontSize" binding:"omitempty,min=10,max=28"`
}

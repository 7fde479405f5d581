package dto

// ── user-preference DTOs ──

// UpdatePreferencesRequest stores per-user UI preferences. Unknown keys
// are accepted; known keys are validated by the service.
type UpdatePreferencesRequest struct {
	Preferences map[string]string `json:"preferences" binding:"required"`
}

// PreferencesResponse returns the stored preferences for the caller.
type PreferencesResponse struct {
	Preferences map[string]string `json:"preferences"`
}

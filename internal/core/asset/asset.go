package asset

// Asset is the summary record the mobile picker works with.
//
// LocationID is optional: an asset genuinely may have no resolvable
// location. That is a valid terminal state, not an error — the wizard
// falls back to manual location selection for such assets.
type Asset struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Code       string  `json:"code"`
	LocationID *string `json:"location_id,omitempty"`
}

package api

type SaveProfileRequest struct {
	Profile *Profile `json:"profile"`
}

// SaveProfileResponse carries the targets recomputed from the saved profile.
type SaveProfileResponse struct {
	Profile *Profile          `json:"profile"`
	Targets *NutritionTargets `json:"targets"`
}

type GetProfileRequest struct{}

type GetProfileResponse struct {
	Profile *Profile          `json:"profile"`
	Targets *NutritionTargets `json:"targets"`
}

package calculator

// PercentOfTarget returns current as a percentage of target, capped at 100
// for progress bars. A non-positive target yields 0.
// Callers that need "over target" must compare current > target themselves.
func PercentOfTarget(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return min(current/target*100, 100)
}

package animation

// ReferenceRate is the frame rate the clock assumes when converting frames to seconds.
// Animation speed follows the real frame rate, not wall-clock time.
const ReferenceRate = 60.0

// Clock converts a frame index into the continuous time value fed to animations.
// The zero value is ready to use.
type Clock struct{}

// Time returns the elapsed time for the given frame index at the reference rate.
//
// Parameters:
//   - frame: the zero-based frame index
//
// Returns:
//   - float64: frame / ReferenceRate
func (Clock) Time(frame uint64) float64 {
	return float64(frame) / ReferenceRate
}

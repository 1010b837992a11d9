package convert

// Size is a pixel size.
type Size struct {
	Width  int
	Height int
}

// ComputeSize returns the size to resample an origW x origH image to so it
// is target pixels wide with the same aspect ratio. The second result is
// false when no resize is needed: target <= 0 (unset) or equal to origW.
func ComputeSize(origW, origH, target int) (Size, bool) {
	if target <= 0 || target == origW || origW <= 0 {
		return Size{}, false
	}
	ratio := float64(target) / float64(origW)
	return Size{Width: target, Height: int(float64(origH) * ratio)}, true
}

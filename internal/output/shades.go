package output

// Shades runs from "no activity" to "at the global maximum".
var Shades = []rune(" ░▒▓█")

// ShadeBar maps each value to a shade relative to max. Zero is always blank;
// any positive value gets at least the lightest mark.
func ShadeBar(values []int, max int) string {
	if max <= 0 {
		max = 1
	}
	top := len(Shades) - 1
	bar := make([]rune, len(values))
	for i, v := range values {
		if v <= 0 {
			bar[i] = Shades[0]
			continue
		}
		idx := int(float64(v)/float64(max)*float64(len(Shades)-2)) + 1
		if idx > top {
			idx = top
		}
		bar[i] = Shades[idx]
	}
	return string(bar)
}

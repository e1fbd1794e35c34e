package screens

// RenderSparkline creates a compact trend chart from values using Unicode
// block characters.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	result := make([]rune, len(values))
	if max == min {
		for i := range result {
			result[i] = blocks[len(blocks)/2]
		}
		return string(result)
	}

	for i, v := range values {
		idx := int((v - min) / (max - min) * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		result[i] = blocks[idx]
	}

	return string(result)
}

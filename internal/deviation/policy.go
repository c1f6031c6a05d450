// ABOUTME: Selection policies over projected points
// ABOUTME: Medal ranking ignores points beyond the line ends, Burdell scoring keeps them at zero deviation

package deviation

// MaxInRangeDeviation returns the largest deviation among points whose foot
// lies on the line. Zero when there are none.
func MaxInRangeDeviation(projections []PointProjection) float64 {
	var maxDev float64
	for _, p := range projections {
		if p.Extrapolated {
			continue
		}
		if p.Deviation > maxDev {
			maxDev = p.Deviation
		}
	}
	return maxDev
}

// Sample is the part of a projection used for segment scoring.
type Sample struct {
	Fraction  float64
	Deviation float64
}

// ScoringSamples returns every projection in track order. A point before the
// start or past the end still marks the first or last segment as visited, but
// sits at that end of the line with no deviation.
func ScoringSamples(projections []PointProjection) []Sample {
	samples := make([]Sample, len(projections))
	for i, p := range projections {
		switch {
		case p.Extrapolated && p.Fraction < 0:
			samples[i] = Sample{Fraction: 0}
		case p.Extrapolated:
			samples[i] = Sample{Fraction: 1}
		default:
			samples[i] = Sample{Fraction: p.Fraction, Deviation: p.Deviation}
		}
	}
	return samples
}

// InRangeCount counts the points whose foot lies on the line.
func InRangeCount(projections []PointProjection) int {
	n := 0
	for _, p := range projections {
		if !p.Extrapolated {
			n++
		}
	}
	return n
}

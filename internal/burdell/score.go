// ABOUTME: Burdell score computation over a deviation analysis
// ABOUTME: Splits the line into segments, penalizes each segment's worst deviation

package burdell

import (
	"cmp"
	"math"
	"slices"

	"github.com/harper/slm/internal/deviation"
	"github.com/harper/slm/internal/models"
)

// Segment is the fractional range [From, To) of the line.
type Segment struct {
	Index int     `json:"index"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
}

// Segments partitions a line of the given length into contiguous segments of
// step meters. The last one is shorter when step does not divide length.
func Segments(length, step float64) ([]Segment, error) {
	if !(length > 0) {
		return nil, models.ErrDegenerateLine
	}
	if err := (Settings{Step: step, Coefficient: 1}).Validate(); err != nil {
		return nil, err
	}

	n := segmentCount(length, step)
	segments := make([]Segment, n)
	for i := range segments {
		segments[i] = Segment{
			Index: i,
			From:  float64(i) * step / length,
			To:    math.Min(float64(i+1)*step/length, 1),
		}
	}
	return segments, nil
}

func segmentCount(length, step float64) int {
	return max(int(math.Ceil(length/step)), 1)
}

// SegmentScore is one segment's contribution to the score.
type SegmentScore struct {
	Segment
	// Points is the number of samples assigned, before leniency.
	Points int `json:"points"`
	// Deviation is the representative deviation in meters.
	Deviation float64 `json:"deviation"`
	// Filled marks an unvisited segment between two visited ones; its
	// deviation is the mean of those neighbours.
	Filled  bool    `json:"filled"`
	Penalty float64 `json:"penalty"`
}

// Result is a score with its per-segment breakdown.
type Result struct {
	Score    float64        `json:"score"`
	Exponent float64        `json:"exponent"`
	Trimmed  int            `json:"trimmed"`
	Segments []SegmentScore `json:"segments"`
}

// Score returns the Burdell score in [0, 100]. It keeps one float per
// segment, so long lines at small steps stay cheap.
func Score(analysis *deviation.Analysis, settings Settings) (float64, error) {
	t, err := tallySegments(analysis, settings, false)
	if err != nil {
		return 0, err
	}
	return t.score, nil
}

type sample struct {
	segment   int
	deviation float64
	dropped   bool
}

// tally holds the representative deviation of every segment. Points and
// filled are only kept for a breakdown.
type tally struct {
	deviations []float64
	points     []int
	filled     []bool
	exponent   float64
	trimmed    int
	score      float64
}

// tallySegments assigns samples to segments, applies leniency, fills interior
// gaps and sums the penalties.
//
// Points before the start or past the end count towards the first or the
// last segment with no deviation. Segments before the first visited one and
// after the last visited one are untraveled and carry no penalty. An
// unvisited segment between two visited ones takes their mean deviation.
func tallySegments(analysis *deviation.Analysis, settings Settings, detailed bool) (*tally, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if analysis == nil || len(analysis.Projections) == 0 {
		return nil, models.ErrEmptyTrack
	}
	if !(analysis.Length > 0) {
		return nil, models.ErrDegenerateLine
	}

	n := segmentCount(analysis.Length, settings.Step)
	last := n - 1

	scoring := deviation.ScoringSamples(analysis.Projections)
	samples := make([]sample, len(scoring))
	for i, s := range scoring {
		idx := int(math.Floor(s.Fraction * analysis.Length / settings.Step))
		samples[i] = sample{segment: min(max(idx, 0), last), deviation: s.Deviation}
	}

	t := &tally{
		deviations: make([]float64, n),
		exponent:   math.Log10(analysis.Length),
	}
	if detailed {
		t.points = make([]int, n)
		t.filled = make([]bool, n)
	}

	if settings.Scope == ScopeLine {
		t.trimmed = trimLine(samples, settings.Leniency)
	}

	// group by segment, worst first
	slices.SortStableFunc(samples, func(a, b sample) int {
		if c := cmp.Compare(a.segment, b.segment); c != 0 {
			return c
		}
		return cmp.Compare(b.deviation, a.deviation)
	})

	var visited []int
	for lo := 0; lo < len(samples); {
		hi := lo
		for hi < len(samples) && samples[hi].segment == samples[lo].segment {
			hi++
		}
		group := samples[lo:hi]
		seg := group[0].segment
		if detailed {
			t.points[seg] = len(group)
		}

		if settings.Scope == ScopeLine {
			t.deviations[seg] = firstKept(group)
		} else {
			drop := lenientCount(len(group), settings.Leniency)
			t.trimmed += drop
			if drop < len(group) {
				t.deviations[seg] = group[drop].deviation
			}
		}

		visited = append(visited, seg)
		lo = hi
	}

	for k := 1; k < len(visited); k++ {
		i1, i2 := visited[k-1], visited[k]
		if i2-i1 <= 1 {
			continue
		}
		fill := (t.deviations[i1] + t.deviations[i2]) / 2
		for j := i1 + 1; j < i2; j++ {
			t.deviations[j] = fill
			if detailed {
				t.filled[j] = true
			}
		}
	}

	var total float64
	for _, dev := range t.deviations {
		total += penalty(dev, settings.Coefficient, t.exponent)
	}
	t.score = math.Max(100-total, 0)
	return t, nil
}

// Breakdown scores the analysis and keeps every segment's details. It
// allocates a record per segment; use Score when only the number matters.
func Breakdown(analysis *deviation.Analysis, settings Settings) (*Result, error) {
	t, err := tallySegments(analysis, settings, true)
	if err != nil {
		return nil, err
	}

	segments, err := Segments(analysis.Length, settings.Step)
	if err != nil {
		return nil, err
	}

	scores := make([]SegmentScore, len(segments))
	for i, seg := range segments {
		scores[i] = SegmentScore{
			Segment:   seg,
			Points:    t.points[i],
			Deviation: t.deviations[i],
			Filled:    t.filled[i],
			Penalty:   penalty(t.deviations[i], settings.Coefficient, t.exponent),
		}
	}

	return &Result{
		Score:    t.score,
		Exponent: t.exponent,
		Trimmed:  t.trimmed,
		Segments: scores,
	}, nil
}

// penalty is the calibrated curve: 100 * (dev / coefficient) ^ log10(length).
func penalty(dev, coefficient, exponent float64) float64 {
	if dev <= 0 {
		return 0
	}
	return 100 * math.Pow(dev/coefficient, exponent)
}

// lenientCount is how many of n values a leniency percentage drops.
func lenientCount(n int, leniency float64) int {
	return int(math.Floor(float64(n) * leniency / 100))
}

// trimLine marks the worst deviations of the whole track as dropped.
func trimLine(samples []sample, leniency float64) int {
	drop := lenientCount(len(samples), leniency)
	if drop == 0 {
		return 0
	}

	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(samples[b].deviation, samples[a].deviation)
	})
	for _, i := range order[:drop] {
		samples[i].dropped = true
	}
	return drop
}

// firstKept returns the largest deviation not dropped, or zero.
func firstKept(group []sample) float64 {
	for _, s := range group {
		if !s.dropped {
			return s.deviation
		}
	}
	return 0
}

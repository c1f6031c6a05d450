// ABOUTME: Turns an evaluation report into a storable attempt
// ABOUTME: Flattens level and medal enums to the names used in history

package mission

import "github.com/harper/slm/internal/models"

// NewAttempt records a report under a name. Source names the input, such as
// the track file.
func NewAttempt(name, source string, r *Report) *models.Attempt {
	a := models.NewAttempt(name, r.Line)
	a.Source = source
	a.PointCount = r.Points
	a.LineLength = r.LineLength
	a.TrackLength = r.TrackLength
	a.MaxDeviation = r.MaxDeviation
	a.Medal = r.Medal.String()
	for l, score := range r.Scores {
		a.Scores[l.String()] = score
	}
	return a
}

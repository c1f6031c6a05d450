// ABOUTME: GeoJSON generation utilities
// ABOUTME: Converts analyses and attempt history to GeoJSON FeatureCollections

package geojson

import (
	"encoding/json"
	"time"

	"github.com/harper/slm/internal/deviation"
	"github.com/harper/slm/internal/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature kinds stored in the "kind" property.
const (
	KindTarget = "target"
	KindTrack  = "track"
	KindPoint  = "point"
	KindFoot   = "foot"
)

// Options selects optional features.
type Options struct {
	// Feet adds the projected foot of every point on the target line.
	Feet bool
}

func point(p models.GeoPoint) orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

func lineString(points ...models.GeoPoint) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = point(p)
	}
	return ls
}

// FromAnalysis builds a collection with the target line, the track and one
// Point feature per track point carrying its deviation.
func FromAnalysis(a *deviation.Analysis, opts Options) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	target := geojson.NewFeature(lineString(a.Line.Start, a.Line.End))
	target.Properties["kind"] = KindTarget
	target.Properties["length"] = a.Length
	target.Properties["model"] = a.Model
	target.Properties["max_deviation"] = a.MaxDeviation
	fc.Append(target)

	if len(a.Projections) >= 2 {
		pts := make([]models.GeoPoint, len(a.Projections))
		for i, p := range a.Projections {
			pts[i] = p.Point
		}
		track := geojson.NewFeature(lineString(pts...))
		track.Properties["kind"] = KindTrack
		track.Properties["point_count"] = len(pts)
		fc.Append(track)
	}

	for i, p := range a.Projections {
		f := geojson.NewFeature(point(p.Point))
		f.Properties["kind"] = KindPoint
		f.Properties["index"] = i
		f.Properties["deviation"] = p.Deviation
		f.Properties["made_good"] = p.MadeGood
		f.Properties["fraction"] = p.Fraction
		f.Properties["side"] = p.Side.String()
		f.Properties["extrapolated"] = p.Extrapolated
		fc.Append(f)

		if opts.Feet {
			foot := geojson.NewFeature(point(p.Foot))
			foot.Properties["kind"] = KindFoot
			foot.Properties["index"] = i
			fc.Append(foot)
		}
	}

	return fc
}

// FromAttempts builds a collection with one target LineString per attempt.
func FromAttempts(attempts []*models.Attempt) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, a := range attempts {
		f := geojson.NewFeature(lineString(a.Line.Start, a.Line.End))
		f.ID = a.ID.String()
		f.Properties["kind"] = KindTarget
		f.Properties["name"] = a.Name
		f.Properties["length"] = a.LineLength
		f.Properties["max_deviation"] = a.MaxDeviation
		f.Properties["medal"] = a.Medal
		f.Properties["scored_at"] = a.ScoredAt.Format(time.RFC3339)
		for level, score := range a.Scores {
			f.Properties["score_"+level] = score
		}
		fc.Append(f)
	}

	return fc
}

// ToJSON serializes a FeatureCollection to JSON.
func ToJSON(fc *geojson.FeatureCollection) ([]byte, error) {
	return fc.MarshalJSON()
}

// ToJSONIndent serializes a FeatureCollection to indented JSON.
func ToJSONIndent(fc *geojson.FeatureCollection) ([]byte, error) {
	return json.MarshalIndent(fc, "", "  ")
}

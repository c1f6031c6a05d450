// ABOUTME: Reader for scoremyline (SML) JSON exports and reference score files
// ABOUTME: Yields the track, the declared target line and the published scores

package trackio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/harper/slm/internal/burdell"
	"github.com/harper/slm/internal/medal"
	"github.com/harper/slm/internal/models"
)

// SMLPoint is one recorded point with the reference tool's measurements.
type SMLPoint struct {
	Latitude          float64 `json:"Latitude"`
	Longitude         float64 `json:"Longitude"`
	Order             int     `json:"Order"`
	CtrlPtLat         float64 `json:"CtrlPtLat"`
	CtrlPtLng         float64 `json:"CtrlPtLng"`
	DistToLine        float64 `json:"DistToLine"`
	CtrlPtDistToStart float64 `json:"CtrlPtDistToStart"`
}

// SMLTargetPoint is an endpoint of the declared line.
type SMLTargetPoint struct {
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
}

func (p SMLTargetPoint) point() models.GeoPoint {
	return models.GeoPoint{Latitude: p.Latitude, Longitude: p.Longitude}
}

// SMLAttempt is the attempt section of an SML document.
type SMLAttempt struct {
	Points           []SMLPoint      `json:"Points"`
	TLStart          *SMLTargetPoint `json:"TLStart"`
	TLEnd            *SMLTargetPoint `json:"TLEnd"`
	TargetLineLength float64         `json:"TargetLineLength"`
}

// SMLDocument is a scoremyline export.
type SMLDocument struct {
	Attempt        SMLAttempt `json:"Attempt"`
	InitDrop       int        `json:"Init_Drop"`
	InitScoreLevel int        `json:"Init_ScoreLevel"`
	Name           string     `json:"Name"`
}

// ReadSML decodes an SML document and checks every point.
func ReadSML(r io.Reader) (*SMLDocument, error) {
	var doc SMLDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, jsonError(err)
	}

	if len(doc.Attempt.Points) == 0 {
		return nil, models.ErrEmptyTrack
	}
	for i, p := range doc.Attempt.Points {
		if err := models.ValidateCoordinates(p.Latitude, p.Longitude); err != nil {
			return nil, &ParseError{Row: i + 1, Kind: KindRange, Err: err}
		}
	}
	if (doc.Attempt.TLStart == nil) != (doc.Attempt.TLEnd == nil) {
		return nil, &ParseError{Kind: KindMissing, Err: errors.New("target line needs both TLStart and TLEnd")}
	}
	return &doc, nil
}

// Track returns the recorded points in file order.
func (d *SMLDocument) Track() models.Track {
	track := make(models.Track, len(d.Attempt.Points))
	for i, p := range d.Attempt.Points {
		track[i] = models.GeoPoint{Latitude: p.Latitude, Longitude: p.Longitude}
	}
	return track
}

// DeclaredLine returns the line from TLStart/TLEnd, if present.
func (d *SMLDocument) DeclaredLine() (*models.TargetLine, error) {
	if d.Attempt.TLStart == nil || d.Attempt.TLEnd == nil {
		return nil, nil
	}
	line, err := models.NewTargetLine(d.Attempt.TLStart.point(), d.Attempt.TLEnd.point())
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// TargetLine returns the declared line, or the track's endpoints.
func (d *SMLDocument) TargetLine() (models.TargetLine, error) {
	declared, err := d.DeclaredLine()
	if err != nil {
		return models.TargetLine{}, err
	}
	if declared != nil {
		return *declared, nil
	}
	track := d.Track()
	return models.NewTargetLine(track.First(), track.Last())
}

// LevelScores are the published Burdell scores per level.
type LevelScores struct {
	Pro     float64 `json:"Pro"`
	Amateur float64 `json:"Amateur"`
	Newbie  float64 `json:"Newbie"`
}

// For returns the score of a level.
func (s LevelScores) For(l burdell.Level) float64 {
	switch l {
	case burdell.Amateur:
		return s.Amateur
	case burdell.Newbie:
		return s.Newbie
	default:
		return s.Pro
	}
}

// LeniencyScores are the published results for one leniency setting.
type LeniencyScores struct {
	// Ignore is the percentage of points dropped, if any.
	Ignore       *int        `json:"ignore"`
	MaxDeviation float64     `json:"maxDeviation"`
	Medal        *string     `json:"medal"`
	Scores       LevelScores `json:"scores"`
}

// Leniency returns the dropped percentage, zero when absent.
func (l LeniencyScores) Leniency() float64 {
	if l.Ignore == nil {
		return 0
	}
	return float64(*l.Ignore)
}

// Tier returns the published medal.
func (l LeniencyScores) Tier() (medal.Tier, error) {
	if l.Medal == nil {
		return medal.None, nil
	}
	return medal.ParseTier(*l.Medal)
}

// ReferenceScores are the reference tool's published results for an attempt.
type ReferenceScores struct {
	// RouteLength is in kilometers.
	RouteLength float64          `json:"routeLength"`
	Scores      []LeniencyScores `json:"scores"`
}

// ReadScores decodes a reference scores file.
func ReadScores(r io.Reader) (*ReferenceScores, error) {
	var s ReferenceScores
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, jsonError(err)
	}
	if len(s.Scores) == 0 {
		return nil, &ParseError{Kind: KindMissing, Err: errors.New("no scores")}
	}
	return &s, nil
}

func jsonError(err error) error {
	var serr *json.SyntaxError
	if errors.As(err, &serr) {
		return &ParseError{Column: int(serr.Offset), Kind: KindSyntax, Err: err}
	}
	var terr *json.UnmarshalTypeError
	if errors.As(err, &terr) {
		return &ParseError{Column: int(terr.Offset), Kind: KindValue, Err: err}
	}
	return fmt.Errorf("decode json: %w", err)
}

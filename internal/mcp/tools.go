// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Scores tracks, solves geodesics and browses saved attempts for AI agents

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/harper/slm/internal/burdell"
	"github.com/harper/slm/internal/mission"
	"github.com/harper/slm/internal/models"
	"github.com/harper/slm/internal/storage"
	"github.com/harper/slm/internal/trackio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerScoreTrackTool()
	s.registerScoreFileTool()
	s.registerDistanceTool()
	if s.repo != nil {
		s.registerListAttemptsTool()
		s.registerGetAttemptTool()
	}
}

func textResult(output any) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

var pointSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"latitude": map[string]interface{}{
			"type":        "number",
			"description": "Latitude in decimal degrees (-90 to 90)",
		},
		"longitude": map[string]interface{}{
			"type":        "number",
			"description": "Longitude in decimal degrees (-180 to 180)",
		},
	},
	"required": []string{"latitude", "longitude"},
}

// ScoreOutput defines output for the scoring tools.
type ScoreOutput struct {
	Line         models.TargetLine  `json:"line"`
	LineLength   float64            `json:"line_length"`
	TrackLength  float64            `json:"track_length"`
	Points       int                `json:"points"`
	InRange      int                `json:"in_range"`
	MaxDeviation float64            `json:"max_deviation"`
	Medal        string             `json:"medal"`
	Scores       map[string]float64 `json:"scores"`
	AttemptID    string             `json:"attempt_id,omitempty"`
}

func scoreOutput(r *mission.Report) ScoreOutput {
	scores := make(map[string]float64, len(r.Scores))
	for l, v := range r.Scores {
		scores[l.String()] = v
	}
	return ScoreOutput{
		Line:         r.Line,
		LineLength:   r.LineLength,
		TrackLength:  r.TrackLength,
		Points:       r.Points,
		InRange:      r.InRange,
		MaxDeviation: r.MaxDeviation,
		Medal:        r.Medal.String(),
		Scores:       scores,
	}
}

// score evaluates the track and saves it when a name is given and history
// is available.
func (s *Server) score(ctx context.Context, track models.Track, start, end *models.GeoPoint, saveAs, source string) (ScoreOutput, error) {
	line, err := mission.TargetLineFor(track, start, end)
	if err != nil {
		return ScoreOutput{}, err
	}

	report, err := s.engine.Evaluate(ctx, line, track)
	if err != nil {
		return ScoreOutput{}, err
	}
	output := scoreOutput(report)

	if saveAs != "" {
		if s.repo == nil {
			return ScoreOutput{}, fmt.Errorf("attempt history is not available")
		}
		a := mission.NewAttempt(saveAs, source, report)
		if err := s.repo.CreateAttempt(a, track); err != nil {
			return ScoreOutput{}, fmt.Errorf("failed to save attempt: %w", err)
		}
		output.AttemptID = a.ID.String()
		slog.Info("saved attempt", "name", saveAs, "id", a.ID)
	}

	return output, nil
}

// ScoreTrackInput defines input for score_track tool.
type ScoreTrackInput struct {
	Points []models.GeoPoint `json:"points"`
	Start  *models.GeoPoint  `json:"start,omitempty"`
	End    *models.GeoPoint  `json:"end,omitempty"`
	SaveAs string            `json:"save_as,omitempty"`
}

func (s *Server) registerScoreTrackTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "score_track",
		Description: "Score a GPS track against a straight target line. Returns route length, max deviation, medal and Burdell scores for the PRO, AMATEUR and NEWBIE levels.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"points": map[string]interface{}{
					"type":        "array",
					"description": "Track points in time order",
					"items":       pointSchema,
				},
				"start": pointSchema,
				"end":   pointSchema,
				"save_as": map[string]interface{}{
					"type":        "string",
					"description": "Optional name to save the attempt under",
				},
			},
			"required": []string{"points"},
		},
	}, s.handleScoreTrack)
}

func (s *Server) handleScoreTrack(ctx context.Context, req *mcp.CallToolRequest, input ScoreTrackInput) (*mcp.CallToolResult, ScoreOutput, error) {
	track := models.Track(input.Points)
	if err := track.Validate(); err != nil {
		return nil, ScoreOutput{}, err
	}

	output, err := s.score(ctx, track, input.Start, input.End, input.SaveAs, "mcp")
	if err != nil {
		return nil, ScoreOutput{}, err
	}
	return textResult(output), output, nil
}

// ScoreFileInput defines input for score_file tool.
type ScoreFileInput struct {
	Path   string           `json:"path"`
	Format string           `json:"format,omitempty"`
	Start  *models.GeoPoint `json:"start,omitempty"`
	End    *models.GeoPoint `json:"end,omitempty"`
	SaveAs string           `json:"save_as,omitempty"`
}

func (s *Server) registerScoreFileTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "score_file",
		Description: "Score a track file (csv, gpx or sml). The target line defaults to the file's declared line or the track's endpoints.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the track file",
				},
				"format": map[string]interface{}{
					"type":        "string",
					"description": "Optional format, detected from the extension when omitted",
					"enum":        []string{"csv", "gpx", "sml"},
				},
				"start": pointSchema,
				"end":   pointSchema,
				"save_as": map[string]interface{}{
					"type":        "string",
					"description": "Optional name to save the attempt under",
				},
			},
			"required": []string{"path"},
		},
	}, s.handleScoreFile)
}

func (s *Server) handleScoreFile(ctx context.Context, req *mcp.CallToolRequest, input ScoreFileInput) (*mcp.CallToolResult, ScoreOutput, error) {
	var format trackio.Format
	if input.Format != "" {
		f, err := trackio.ParseFormat(input.Format)
		if err != nil {
			return nil, ScoreOutput{}, err
		}
		format = f
	}

	src, err := trackio.Open(input.Path, format)
	if err != nil {
		return nil, ScoreOutput{}, err
	}

	start, end := input.Start, input.End
	if src.Line != nil {
		if start == nil {
			start = &src.Line.Start
		}
		if end == nil {
			end = &src.Line.End
		}
	}

	output, err := s.score(ctx, src.Track, start, end, input.SaveAs, filepath.Base(input.Path))
	if err != nil {
		return nil, ScoreOutput{}, err
	}
	return textResult(output), output, nil
}

// DistanceInput defines input for geodesic_distance tool.
type DistanceInput struct {
	From models.GeoPoint `json:"from"`
	To   models.GeoPoint `json:"to"`
}

// DistanceOutput defines output for geodesic_distance tool.
type DistanceOutput struct {
	Distance       float64 `json:"distance"`
	InitialBearing float64 `json:"initial_bearing"`
	FinalBearing   float64 `json:"final_bearing"`
}

func (s *Server) registerDistanceTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "geodesic_distance",
		Description: "Distance in meters and bearings in degrees between two points on the WGS84 ellipsoid.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"from": pointSchema,
				"to":   pointSchema,
			},
			"required": []string{"from", "to"},
		},
	}, s.handleDistance)
}

func (s *Server) handleDistance(_ context.Context, req *mcp.CallToolRequest, input DistanceInput) (*mcp.CallToolResult, DistanceOutput, error) {
	for _, p := range []models.GeoPoint{input.From, input.To} {
		if err := models.ValidateCoordinates(p.Latitude, p.Longitude); err != nil {
			return nil, DistanceOutput{}, err
		}
	}

	sol, err := s.engine.Solver().SolveInverse(input.From, input.To)
	if err != nil {
		return nil, DistanceOutput{}, err
	}

	output := DistanceOutput{
		Distance:       sol.Distance,
		InitialBearing: sol.InitialBearing,
		FinalBearing:   sol.FinalBearing,
	}
	return textResult(output), output, nil
}

// AttemptOutput defines output for attempt tools.
type AttemptOutput struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Source       string             `json:"source,omitempty"`
	LineLength   float64            `json:"line_length"`
	MaxDeviation float64            `json:"max_deviation"`
	Medal        string             `json:"medal"`
	Scores       map[string]float64 `json:"scores"`
	ScoredAt     string             `json:"scored_at"`
}

func attemptOutput(a *models.Attempt) AttemptOutput {
	return AttemptOutput{
		ID:           a.ID.String(),
		Name:         a.Name,
		Source:       a.Source,
		LineLength:   a.LineLength,
		MaxDeviation: a.MaxDeviation,
		Medal:        a.Medal,
		Scores:       a.Scores,
		ScoredAt:     a.ScoredAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ListAttemptsOutput defines output for list_attempts tool.
type ListAttemptsOutput struct {
	Attempts []AttemptOutput `json:"attempts"`
	Count    int             `json:"count"`
}

// ListAttemptsInput is empty but required for type.
type ListAttemptsInput struct{}

func (s *Server) registerListAttemptsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_attempts",
		Description: "List saved attempts, newest first.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleListAttempts)
}

func (s *Server) handleListAttempts(_ context.Context, req *mcp.CallToolRequest, input ListAttemptsInput) (*mcp.CallToolResult, ListAttemptsOutput, error) {
	attempts, err := s.repo.ListAttempts()
	if err != nil {
		return nil, ListAttemptsOutput{}, fmt.Errorf("failed to list attempts: %w", err)
	}

	outputs := make([]AttemptOutput, len(attempts))
	for i, a := range attempts {
		outputs[i] = attemptOutput(a)
	}

	output := ListAttemptsOutput{
		Attempts: outputs,
		Count:    len(outputs),
	}
	return textResult(output), output, nil
}

// GetAttemptInput defines input for get_attempt tool.
type GetAttemptInput struct {
	Name string `json:"name"`
}

func (s *Server) registerGetAttemptTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_attempt",
		Description: "Get the most recent saved attempt with the given name.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Name the attempt was saved under",
				},
			},
			"required": []string{"name"},
		},
	}, s.handleGetAttempt)
}

func (s *Server) handleGetAttempt(_ context.Context, req *mcp.CallToolRequest, input GetAttemptInput) (*mcp.CallToolResult, AttemptOutput, error) {
	if err := models.ValidateName(input.Name); err != nil {
		return nil, AttemptOutput{}, err
	}

	a, err := s.repo.GetAttemptByName(input.Name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, AttemptOutput{}, fmt.Errorf("attempt '%s' not found", input.Name)
	}
	if err != nil {
		return nil, AttemptOutput{}, fmt.Errorf("failed to get attempt: %w", err)
	}

	output := attemptOutput(a)
	return textResult(output), output, nil
}

// levelNames lists the score keys in display order.
func levelNames() []string {
	names := make([]string, len(burdell.Levels))
	for i, l := range burdell.Levels {
		names[i] = l.String()
	}
	return names
}

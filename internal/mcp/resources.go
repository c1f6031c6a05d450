// ABOUTME: MCP resource definitions
// ABOUTME: Provides read-only views of the scoring model and attempt history

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/slm/internal/mission"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	modelURI    = "slm://model"
	attemptsURI = "slm://attempts"
)

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        modelURI,
		Description: "The scoring model: ellipsoid, solver settings, medal thresholds and Burdell level settings",
		URI:         modelURI,
		MIMEType:    "application/json",
	}, s.handleModelResource)

	if s.repo != nil {
		s.mcp.AddResource(&mcp.Resource{
			Name:        attemptsURI,
			Description: "All saved attempts, newest first",
			URI:         attemptsURI,
			MIMEType:    "application/json",
		}, s.handleAttemptsResource)
	}
}

// ModelOutput is the model resource body.
type ModelOutput struct {
	Levels []string      `json:"levels"`
	Model  mission.Model `json:"model"`
}

func jsonResource(uri string, v any) *mcp.ReadResourceResult {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}
}

func (s *Server) handleModelResource(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(modelURI, ModelOutput{
		Levels: levelNames(),
		Model:  s.engine.Model(),
	}), nil
}

func (s *Server) handleAttemptsResource(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	attempts, err := s.repo.ListAttempts()
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	outputs := make([]AttemptOutput, len(attempts))
	for i, a := range attempts {
		outputs[i] = attemptOutput(a)
	}

	return jsonResource(attemptsURI, ListAttemptsOutput{
		Attempts: outputs,
		Count:    len(outputs),
	}), nil
}

// ABOUTME: Shared track input flags for commands that read a track file
// ABOUTME: Resolves the target line from flags, the file or the track's endpoints

package main

import (
	"fmt"
	"log/slog"

	"github.com/harper/slm/internal/mission"
	"github.com/harper/slm/internal/models"
	"github.com/harper/slm/internal/trackio"
	"github.com/spf13/cobra"
)

// trackInput holds the flags describing a track file and its target line.
type trackInput struct {
	start  string
	end    string
	format string
}

func (in *trackInput) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.start, "start", "s", "", "target line start as lat,lon (default: declared line or first point)")
	cmd.Flags().StringVarP(&in.end, "end", "e", "", "target line end as lat,lon (default: declared line or last point)")
	cmd.Flags().StringVarP(&in.format, "format", "f", "", "input format: csv, gpx or sml (default: from extension)")
}

// load reads the track and resolves its target line. Flags win over a line
// declared by the file, which wins over the track's endpoints.
func (in *trackInput) load(path string) (*trackio.Source, models.TargetLine, error) {
	var format trackio.Format
	if in.format != "" {
		f, err := trackio.ParseFormat(in.format)
		if err != nil {
			return nil, models.TargetLine{}, err
		}
		format = f
	}

	src, err := trackio.Open(path, format)
	if err != nil {
		return nil, models.TargetLine{}, err
	}

	var start, end *models.GeoPoint
	if src.Line != nil {
		start, end = &src.Line.Start, &src.Line.End
	}
	if in.start != "" {
		p, err := models.ParseGeoPoint(in.start)
		if err != nil {
			return nil, models.TargetLine{}, fmt.Errorf("--start: %w", err)
		}
		start = &p
	}
	if in.end != "" {
		p, err := models.ParseGeoPoint(in.end)
		if err != nil {
			return nil, models.TargetLine{}, fmt.Errorf("--end: %w", err)
		}
		end = &p
	}

	line, err := mission.TargetLineFor(src.Track, start, end)
	if err != nil {
		return nil, models.TargetLine{}, err
	}

	slog.Debug("loaded track", "path", path, "format", src.Format, "points", len(src.Track))
	return src, line, nil
}

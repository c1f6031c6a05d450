// ABOUTME: CSV track reading and writing
// ABOUTME: One lat,lon pair per row with an optional header on the first row

package trackio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/harper/slm/internal/models"
)

// ReadCSV decodes a track. Columns past the second are ignored. A first row
// whose latitude is not a number is taken as a header.
func ReadCSV(r io.Reader) (models.Track, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var track models.Track
	for first := true; ; first = false {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &ParseError{Row: perr.Line, Column: perr.Column, Kind: KindSyntax, Err: perr.Err}
			}
			return nil, err
		}

		row, _ := cr.FieldPos(0)
		if len(record) < 2 {
			return nil, &ParseError{Row: row, Column: 1, Kind: KindSyntax, Err: errors.New("no comma separator")}
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			if first {
				continue
			}
			return nil, &ParseError{Row: row, Column: 1, Kind: KindValue}
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, &ParseError{Row: row, Column: 2, Kind: KindValue}
		}

		if err := models.ValidateCoordinates(lat, lng); err != nil {
			return nil, &ParseError{Row: row, Column: 1, Kind: KindRange, Err: err}
		}
		track = append(track, models.GeoPoint{Latitude: lat, Longitude: lng})
	}

	if len(track) == 0 {
		return nil, models.ErrEmptyTrack
	}
	return track, nil
}

// WriteCSV encodes a track with a Latitude,Longitude header and 8 decimals.
func WriteCSV(w io.Writer, track models.Track) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Latitude", "Longitude"}); err != nil {
		return err
	}
	for _, p := range track {
		if err := cw.Write([]string{formatCoordinate(p.Latitude), formatCoordinate(p.Longitude)}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', 8, 64)
}

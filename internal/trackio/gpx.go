// ABOUTME: GPX track reading and writing
// ABOUTME: Reads the points of the first track across all of its segments

package trackio

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/harper/slm/internal/models"
)

// ReadGPX decodes the <trkpt> elements of the first <trk>. Later tracks,
// routes and waypoints are ignored.
func ReadGPX(r io.Reader) (models.Track, error) {
	d := xml.NewDecoder(r)

	var track models.Track
	inTrack := false

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var serr *xml.SyntaxError
			if errors.As(err, &serr) {
				return nil, &ParseError{Row: serr.Line, Kind: KindSyntax, Err: errors.New(serr.Msg)}
			}
			return nil, &ParseError{Kind: KindSyntax, Err: err}
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "trk":
				inTrack = true
			case "trkpt":
				if !inTrack {
					continue
				}
				row, col := d.InputPos()
				p, err := trackPoint(el, row, col)
				if err != nil {
					return nil, err
				}
				track = append(track, p)
			}
		case xml.EndElement:
			if el.Name.Local == "trk" && inTrack {
				return finish(track)
			}
		}
	}

	return finish(track)
}

func finish(track models.Track) (models.Track, error) {
	if len(track) == 0 {
		return nil, models.ErrEmptyTrack
	}
	return track, nil
}

func trackPoint(el xml.StartElement, row, col int) (models.GeoPoint, error) {
	var lat, lng *float64
	for _, attr := range el.Attr {
		var dst **float64
		switch attr.Name.Local {
		case "lat":
			dst = &lat
		case "lon":
			dst = &lng
		default:
			continue
		}
		if *dst != nil {
			return models.GeoPoint{}, &ParseError{Row: row, Column: col, Kind: KindDuplicate, Err: fmt.Errorf("attribute %s", attr.Name.Local)}
		}
		v, err := strconv.ParseFloat(attr.Value, 64)
		if err != nil {
			return models.GeoPoint{}, &ParseError{Row: row, Column: col, Kind: KindValue, Err: fmt.Errorf("attribute %s=%q", attr.Name.Local, attr.Value)}
		}
		*dst = &v
	}

	if lat == nil || lng == nil {
		return models.GeoPoint{}, &ParseError{Row: row, Column: col, Kind: KindMissing}
	}
	if err := models.ValidateCoordinates(*lat, *lng); err != nil {
		return models.GeoPoint{}, &ParseError{Row: row, Column: col, Kind: KindRange, Err: err}
	}
	return models.GeoPoint{Latitude: *lat, Longitude: *lng}, nil
}

type gpxDocument struct {
	XMLName xml.Name `xml:"gpx"`
	Xmlns   string   `xml:"xmlns,attr"`
	Version string   `xml:"version,attr"`
	Creator string   `xml:"creator,attr"`
	Track   gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Name    string     `xml:"name,omitempty"`
	Segment gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat string `xml:"lat,attr"`
	Lon string `xml:"lon,attr"`
}

// WriteGPX encodes the track as a single-segment GPX 1.1 track.
func WriteGPX(w io.Writer, name string, track models.Track) error {
	doc := gpxDocument{
		Xmlns:   "http://www.topografix.com/GPX/1/1",
		Version: "1.1",
		Creator: "slm",
		Track:   gpxTrack{Name: name},
	}
	doc.Track.Segment.Points = make([]gpxPoint, len(track))
	for i, p := range track {
		doc.Track.Segment.Points[i] = gpxPoint{Lat: formatCoordinate(p.Latitude), Lon: formatCoordinate(p.Longitude)}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write gpx: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// ABOUTME: Picks a decoder from an explicit format or the file extension
// ABOUTME: Returns the track together with any line the file declares

package trackio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/slm/internal/models"
)

// Format is a track file format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatGPX Format = "gpx"
	FormatSML Format = "sml"
)

// Formats lists the readable formats.
var Formats = []Format{FormatCSV, FormatGPX, FormatSML}

// ParseFormat reads a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// DetectFormat infers the format from the file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: no file extension on %s", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Source is a decoded track file.
type Source struct {
	Path   string
	Name   string
	Format Format
	Track  models.Track
	// Line is the target line declared by the file, nil when it has none.
	Line *models.TargetLine
	// SML is set for SML files.
	SML *SMLDocument
}

// Open reads a track file. An empty format is inferred from the extension.
func Open(path string, format Format) (*Source, error) {
	if format == "" {
		f, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	src.Path = path
	if src.Name == "" {
		src.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return src, nil
}

// Decode reads a track in the given format.
func Decode(r io.Reader, format Format) (*Source, error) {
	src := &Source{Format: format}

	switch format {
	case FormatCSV:
		track, err := ReadCSV(r)
		if err != nil {
			return nil, err
		}
		src.Track = track
	case FormatGPX:
		track, err := ReadGPX(r)
		if err != nil {
			return nil, err
		}
		src.Track = track
	case FormatSML:
		doc, err := ReadSML(r)
		if err != nil {
			return nil, err
		}
		line, err := doc.DeclaredLine()
		if err != nil {
			return nil, err
		}
		src.SML = doc
		src.Name = doc.Name
		src.Track = doc.Track()
		src.Line = line
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return src, nil
}

// OpenScores reads a reference scores file.
func OpenScores(path string) (*ReferenceScores, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := ReadScores(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Write encodes a track in the given format. SML is read-only.
func Write(w io.Writer, format Format, name string, track models.Track) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, track)
	case FormatGPX:
		return WriteGPX(w, name, track)
	default:
		return fmt.Errorf("%w: cannot write %q", ErrUnknownFormat, format)
	}
}

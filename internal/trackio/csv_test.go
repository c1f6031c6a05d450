// ABOUTME: Tests for CSV track reading and writing
// ABOUTME: Covers optional headers, error positions and the 8-decimal dump

package trackio

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/harper/slm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Latitude,Longitude
54.29600470,-4.58877725
54.29600654,-4.58877590
54.29600906,-4.58876509
`

var sampleTrack = models.Track{
	{Latitude: 54.29600470, Longitude: -4.58877725},
	{Latitude: 54.29600654, Longitude: -4.58877590},
	{Latitude: 54.29600906, Longitude: -4.58876509},
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"with_header", sampleCSV},
		{"no_trailing_newline", strings.TrimSuffix(sampleCSV, "\n")},
		{"without_header", strings.TrimPrefix(sampleCSV, "Latitude,Longitude\n")},
		{"spaces_and_extra_columns", "lat, lon, ele\n54.29600470, -4.58877725, 12\n54.29600654,-4.58877590,13\n54.29600906,-4.58876509,14\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadCSV(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, sampleTrack, got)
		})
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		row    int
		column int
		kind   Kind
	}{
		{"no_separator", "54.1,-4.5\nfoo\n", 2, 1, KindSyntax},
		{"bad_latitude", "54.1,-4.5\nabc,1\n", 2, 1, KindValue},
		{"bad_longitude_first_row", "54.1,west\n", 1, 2, KindValue},
		{"out_of_range", "54.1,-4.5\n95,1\n", 2, 1, KindRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
			assert.Equal(t, tt.row, perr.Row)
			assert.Equal(t, tt.column, perr.Column)
			assert.Equal(t, tt.kind, perr.Kind)
		})
	}
}

func TestReadCSV_BadQuoting(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("54.1,-4.5\n\"54.2,-4.6\n"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindSyntax, perr.Kind)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, models.ErrEmptyTrack)

	_, err = ReadCSV(strings.NewReader("Latitude,Longitude\n"))
	assert.ErrorIs(t, err, models.ErrEmptyTrack)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTrack))
	assert.Equal(t, sampleCSV, buf.String())

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleTrack, back)
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Row: 3, Column: 2, Kind: KindValue}
	assert.Equal(t, "3:2 ill-formed coordinate value", err.Error())

	wrapped := &ParseError{Row: 1, Column: 1, Kind: KindRange, Err: errors.New("latitude must be between -90 and 90")}
	assert.Equal(t, "1:1 coordinate out of range: latitude must be between -90 and 90", wrapped.Error())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

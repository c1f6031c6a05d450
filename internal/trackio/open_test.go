// ABOUTME: Tests for format detection and file opening
// ABOUTME: Writes sample files to a temp dir and decodes them by extension

package trackio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"track.csv", FormatCSV, false},
		{"TRACK.GPX", FormatGPX, false},
		{"attempt.sml", FormatSML, false},
		{"track.kml", "", true},
		{"track", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen(t *testing.T) {
	csvPath := writeFile(t, "iom-run.csv", sampleCSV)
	src, err := Open(csvPath, "")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, src.Format)
	assert.Equal(t, "iom-run", src.Name)
	assert.Equal(t, sampleTrack, src.Track)
	assert.Nil(t, src.Line)

	smlPath := writeFile(t, "attempt.sml", sampleSML)
	src, err = Open(smlPath, "")
	require.NoError(t, err)
	assert.Equal(t, "Isle of Man", src.Name)
	require.NotNil(t, src.Line)
	assert.Equal(t, 54.19, src.Line.End.Latitude)
	require.NotNil(t, src.SML)

	// explicit format wins over the extension
	txtPath := writeFile(t, "track.txt", sampleCSV)
	src, err = Open(txtPath, FormatCSV)
	require.NoError(t, err)
	assert.Len(t, src.Track, 3)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.csv"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Open(writeFile(t, "track.txt", sampleCSV), "")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Open(writeFile(t, "bad.csv", "1,2\nx\n"), "")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "bad.csv")
}

func TestOpenScores(t *testing.T) {
	s, err := OpenScores(writeFile(t, "attempt.json", sampleScores))
	require.NoError(t, err)
	assert.Len(t, s.Scores, 2)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatGPX, "t", sampleTrack))

	src, err := Decode(&buf, FormatGPX)
	require.NoError(t, err)
	assert.Equal(t, sampleTrack, src.Track)

	assert.ErrorIs(t, Write(&buf, FormatSML, "t", sampleTrack), ErrUnknownFormat)

	_, err = ParseFormat("kml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

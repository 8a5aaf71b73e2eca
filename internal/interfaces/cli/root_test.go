package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appscreening "github.com/ukgridlab/solarscreen/internal/application/screening"
)

const testCSV = `lsoa_code,lsoa_name,latitude,longitude,category,solar_connections,population,solar_per_1000_pop,potential_lat_score,priority_score
E01000001,Camden 001,51.53,-0.13,High potential / Low uptake (PRIORITY),12,1500,8.0,0.91,40
E01000002,Leeds 014,53.80,-1.55,Low potential / High uptake,55,1800,30.5,0.40,10
E01000003,Bristol 032,51.45,-2.58,High potential / Low uptake (PRIORITY),20,2100,9.5,0.88,20
E01000004,York 007,53.96,-1.08,High potential / Low uptake (PRIORITY),18,1700,8.8,0.86,20
`

func writeTestCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model_table.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_Version(t *testing.T) {
	out, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "solarscreen")
}

func TestScreenCommand_Table(t *testing.T) {
	path := writeTestCSV(t)
	out, err := runCommand(t, "screen", "--csv", path, "--top-n", "2", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "E01000001", "highest score first")
	assert.Contains(t, out, "E01000003", "earlier tied row second")
	assert.NotContains(t, out, "E01000004", "truncated at top-n")
	assert.Contains(t, out, "2 area(s)")
}

func TestScreenCommand_JSON(t *testing.T) {
	path := writeTestCSV(t)
	out, err := runCommand(t, "screen", "--csv", path, "-o", "json", "--log-level", "error")
	require.NoError(t, err)

	var view appscreening.MapView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Points, 4)
	assert.Equal(t, "E01000001", view.Points[0].Code)
	assert.InDelta(t, 1.0, view.Points[0].Percentile, 1e-12)
}

func TestScreenCommand_CategoryFilter(t *testing.T) {
	path := writeTestCSV(t)
	out, err := runCommand(t, "screen",
		"--csv", path,
		"--categories", "Low potential / High uptake",
		"--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "E01000002")
	assert.NotContains(t, out, "E01000001")
}

func TestScreenCommand_RejectsBadGamma(t *testing.T) {
	path := writeTestCSV(t)
	_, err := runCommand(t, "screen", "--csv", path, "--gamma", "9", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gamma")
}

func TestScreenCommand_MissingFile(t *testing.T) {
	_, err := runCommand(t, "screen", "--csv", "/nonexistent/table.csv", "--log-level", "error")
	require.Error(t, err)
}

func TestSummaryCommand(t *testing.T) {
	path := writeTestCSV(t)
	out, err := runCommand(t, "summary", "--csv", path, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Areas:")
	assert.Contains(t, out, "Priority areas:        3")
	assert.Contains(t, out, "High potential / Low uptake (PRIORITY)")
}

func TestSummaryCommand_JSON(t *testing.T) {
	path := writeTestCSV(t)
	out, err := runCommand(t, "summary", "--csv", path, "-o", "json", "--log-level", "error")
	require.NoError(t, err)

	var payload struct {
		Summary struct {
			Count int `json:"count"`
		} `json:"summary"`
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, 4, payload.Summary.Count)
	assert.Len(t, payload.Categories, 2)
}

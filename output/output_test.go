package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/cellmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

func TestVersionedFilename(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "results")

	first, err := VersionedFilename(dir, "query_results_", ".json", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "query_results_20240305_140709_v1.json"), first)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "directory should be created")

	require.NoError(t, os.WriteFile(first, []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "query_results_20240305_140709_v7.json"), []byte("[]"), 0o644))

	next, err := VersionedFilename(dir, "query_results_", ".json", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "query_results_20240305_140709_v8.json"), next)
}

func TestVersionedFilename_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	others := []string{
		"query_results_20240305_140708_v9.json", // other timestamp
		"similarity_20240305_140709_v9.json",    // other prefix
		"query_results_20240305_140709_v9.txt",  // other suffix
		"query_results_20240305_140709_vX.json", // not a version
	}
	for _, name := range others {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	path, err := VersionedFilename(dir, "query_results_", ".json", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "query_results_20240305_140709_v1.json", filepath.Base(path))
}

func TestVersionedFilename_EmptyDir(t *testing.T) {
	_, err := VersionedFilename("", "p_", ".json", fixedNow)
	assert.ErrorIs(t, err, ErrEmptyDirectory)
}

func TestWriteResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	results := []core.QueryResult{{
		ColumnName: "origin",
		Value:      "Hamburg",
		RowIDs:     []string{"row2", "row5"},
		BestScore:  0.93,
		UserQuery:  "shipments from hamburg",
	}}

	require.NoError(t, WriteResults(path, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	expected := `[
    {
        "column_name": "origin",
        "value": "Hamburg",
        "row_ids": [
            "row2",
            "row5"
        ],
        "best_score": 0.93,
        "user_query": "shipments from hamburg"
    }
]`
	assert.Equal(t, expected, string(data))
}

func TestWriteResults_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, WriteResults(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDetails(t *testing.T) {
	var d Details
	d.Set("b query", []core.ColumnMatch{{Column: "z", Value: "v1", Score: 0.5}})
	d.Set("a query", []core.ColumnMatch{core.NoMatch("y")})
	d.Set("b query", []core.ColumnMatch{{Column: "z", Value: "v2", Score: 0.7}})

	assert.Equal(t, []string{"b query", "a query"}, d.Queries())
	assert.Equal(t, 2, d.Len())

	cols, ok := d.Columns("b query")
	require.True(t, ok)
	assert.Equal(t, "v2", cols[0].Value)

	_, ok = d.Columns("missing")
	assert.False(t, ok)
}

func TestWriteDetails(t *testing.T) {
	var d Details
	d.Add(&core.QueryMatch{
		Query: "heavy",
		Columns: []core.ColumnMatch{
			{Column: "weight", Value: int64(7), Score: 0.5, Key: "7", Row: 1},
			{Column: "carrier", Value: "DHL", Score: 0.25, Key: "DHL", Row: 0},
		},
	})
	d.Add(&core.QueryMatch{Query: "nothing", Columns: []core.ColumnMatch{core.NoMatch("carrier")}})

	path := filepath.Join(t.TempDir(), "details.json")
	require.NoError(t, WriteDetails(path, &d))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	expected := `{
    "heavy": {
        "weight": {
            "column_name": "weight",
            "value": 7,
            "similarity_score": 0.5
        },
        "carrier": {
            "column_name": "carrier",
            "value": "DHL",
            "similarity_score": 0.25
        }
    },
    "nothing": {
        "carrier": {
            "column_name": "carrier",
            "value": null,
            "similarity_score": -1
        }
    }
}`
	assert.Equal(t, expected, string(data))
	assert.True(t, json.Valid(data))
}

func TestWriteDetails_Nil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "details.json")
	require.NoError(t, WriteDetails(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestWrite_KeepsMarkupCharacters(t *testing.T) {
	dir := t.TempDir()
	query := "cargo for <R&D> labs"

	resultsPath := filepath.Join(dir, "results.json")
	require.NoError(t, WriteResults(resultsPath, []core.QueryResult{{
		ColumnName: "consignee",
		Value:      "Smith & Sons <Ltd>",
		RowIDs:     []string{"row3"},
		BestScore:  0.8,
		UserQuery:  query,
	}}))
	data, err := os.ReadFile(resultsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"value": "Smith & Sons <Ltd>"`)
	assert.Contains(t, string(data), `"user_query": "cargo for <R&D> labs"`)
	assert.NotContains(t, string(data), `\u0026`)

	var d Details
	d.Set(query, []core.ColumnMatch{{Column: "consignee", Value: "Smith & Sons <Ltd>", Score: 0.8}})
	detailsPath := filepath.Join(dir, "details.json")
	require.NoError(t, WriteDetails(detailsPath, &d))
	data, err = os.ReadFile(detailsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cargo for <R&D> labs": {`)
	assert.Contains(t, string(data), `"value": "Smith & Sons <Ltd>"`)
	assert.NotContains(t, string(data), `\u003c`)
	assert.True(t, json.Valid(data))
}

package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gewnthar/statsprep/models"
	"github.com/stretchr/testify/require"
)

func TestLoadSchema(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "games_schema.csv", "column_name,data_type\nteam,text\nwin_ratio,numeric\n,\nnew_field,\n")

	cols, err := LoadSchema(path)
	require.NoError(t, err)
	require.Len(t, cols, 4)
	require.Equal(t, "numeric", cols[1].DataType)
	require.Equal(t, []string{"team", "win_ratio", "new_field"}, SchemaNames(cols))

	_, err = LoadSchema(filepath.Join(dir, "nope.csv"))
	require.Error(t, err)
}

func TestWriteManifest(t *testing.T) {
	sources := []models.SourceFile{
		{Path: "/in/games_2021.csv", StatsYear: "2021", Rows: 17, Columns: 3},
		{Path: "/in/games_2022.csv", StatsYear: "2022", Rows: 17, Columns: 3},
	}
	entries := Manifest("run-1", sources)
	require.Equal(t, "games_2021.csv", entries[0].File)

	path := ManifestPath(t.TempDir(), "games")
	require.NoError(t, WriteManifest(path, entries))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t,
		"run_id,file,stats_year,rows,columns\n"+
			"run-1,games_2021.csv,2021,17,3\n"+
			"run-1,games_2022.csv,2022,17,3\n",
		string(data))
}

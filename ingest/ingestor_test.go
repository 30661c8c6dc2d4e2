package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gewnthar/statsprep/timezone"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func fixedClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		ts := times[i%len(times)]
		i++
		return ts
	}
}

func TestPreprocessGamesScenario(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "games_2021.csv", "Team,Win %\nPatriots,0.588\n"),
		writeFile(t, dir, "games_2022.csv", "Team,Win %\nBills,0.813\n"),
	}

	ing, err := New(paths, Options{Target: "games", Storage: "games"})
	require.NoError(t, err)
	require.Equal(t, "bronze_games", ing.Schema())

	ing, err = ing.Preprocess()
	require.NoError(t, err)
	require.Equal(t, StateCleaned, ing.State())

	table, err := ing.Table()
	require.NoError(t, err)
	require.Equal(t, []string{"team", "win_ratio", "statsyear", "creation_date"}, table.Names())
	require.Equal(t, 2, table.NumRows())

	years := table.Column(table.Index("statsyear")).Values
	require.Equal(t, "2021", years[0].String())
	require.Equal(t, "2022", years[1].String())

	created := table.Column(table.Index("creation_date")).Values
	require.True(t, created[0].Time().Equal(created[1].Time()))
	require.Equal(t, timezone.DefaultName, created[0].Time().Location().String())
}

func TestLoadAndMergeCounts(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "passing_2019.csv", "Player,Tm,Yds\nBrady,NE,4057\nAllen,BUF,3089\n"),
		writeFile(t, dir, "passing_2020.csv", "Player,Tm,Yds\nBrady,TB,4633\nAllen,BUF,4544\nMahomes,KC,4740\n"),
		writeFile(t, dir, "passing_2021.csv", "Player,Tm,Yds\nBrady,TB,5316\n"),
	}

	ing, err := New(paths, Options{Target: "passing"})
	require.NoError(t, err)
	require.NoError(t, ing.LoadAndMerge())
	require.Equal(t, StateMerged, ing.State())

	table, err := ing.Table()
	require.NoError(t, err)
	require.Equal(t, 2+3+1, table.NumRows())
	require.Equal(t, 3+1, table.NumCols())
	require.Equal(t, []string{"Player", "Tm", "Yds", StatsYearColumn}, table.Names())

	sources := ing.Sources()
	require.Len(t, sources, 3)
	require.Equal(t, "2020", sources[1].StatsYear)
	require.Equal(t, 3, sources[1].Rows)
	require.Equal(t, 4, sources[1].Columns)
}

func TestLoadAndMergeDropsUnnamedColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "teams_2022.csv", "Rk,,Tm\n1,x,KC\n2,y,BUF\n")

	ing, err := New([]string{path}, Options{})
	require.NoError(t, err)
	require.NoError(t, ing.LoadAndMerge())

	table, err := ing.Table()
	require.NoError(t, err)
	require.Equal(t, []string{"Rk", "Tm", StatsYearColumn}, table.Names())
}

func TestLoadAndMergeMultiLevelHeaders(t *testing.T) {
	dir := t.TempDir()
	content := ",,Passing,Passing,\n" +
		"Rk,Tm,Cmp,Yds,\n" +
		"1,KC,435,5250,\n" +
		"2,BUF,359,4283,\n"
	path := writeFile(t, dir, "team_offense_2022.csv", content)

	ing, err := New([]string{path}, Options{Target: "team_offense", HeaderRows: []int{0, 1}})
	require.NoError(t, err)
	ing, err = ing.Preprocess()
	require.NoError(t, err)

	table, err := ing.Table()
	require.NoError(t, err)
	require.Equal(t, []string{"rk", "tm", "passing_cmp", "passing_yds", "statsyear", "creation_date"}, table.Names())
	require.Equal(t, 2, table.NumRows())
	require.Equal(t, "4283", table.Column(3).Values[1].String())
}

func TestLoadAndMergeReconcilesSchemaDrift(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "games_2001.csv", "Team,W\nNE,11\n"),
		writeFile(t, dir, "games_2002.csv", "Team,W,T\nNE,9,0\n"),
	}

	ing, err := New(paths, Options{})
	require.NoError(t, err)
	require.NoError(t, ing.LoadAndMerge())

	table, err := ing.Table()
	require.NoError(t, err)
	require.Equal(t, []string{"Team", "W", StatsYearColumn, "T"}, table.Names())
	require.True(t, table.Column(3).Values[0].IsMissing())
	require.Equal(t, "0", table.Column(3).Values[1].String())
}

func TestLoadAndMergeUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "games_2021.xlsx", "not a csv"),
		writeFile(t, dir, "games_2022.csv", "Team\nNE\n"),
	}

	ing, err := New(paths, Options{})
	require.NoError(t, err)

	err = ing.LoadAndMerge()
	require.True(t, errors.Is(err, ErrUnsupportedFormat))
	var unsupported *UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	require.Equal(t, ".xlsx", unsupported.Ext)
	require.Equal(t, StateEmpty, ing.State())

	_, err = ing.Table()
	require.True(t, errors.Is(err, ErrPrecondition))
}

func TestLoadAndMergeRequiresYearInFileName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "games.csv", "Team\nNE\n")

	ing, err := New([]string{path}, Options{})
	require.NoError(t, err)
	require.True(t, errors.Is(ing.LoadAndMerge(), ErrFilenameYear))
	require.Equal(t, StateEmpty, ing.State())
}

func TestOperationsBeforeLoadFail(t *testing.T) {
	ing, err := New([]string{"games_2022.csv"}, Options{})
	require.NoError(t, err)

	_, err = ing.NormalizeColumnNames()
	require.True(t, errors.Is(err, ErrPrecondition))

	var pre *PreconditionError
	require.True(t, errors.As(err, &pre))
	require.Equal(t, StateEmpty, pre.State)
	require.Equal(t, StateMerged, pre.Need)

	require.True(t, errors.Is(ing.AddCreationDate(), ErrPrecondition))
	require.True(t, errors.Is(ing.EnsureColumns("x"), ErrPrecondition))
}

func TestCreationDateDiffersAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "games_2022.csv", "Team\nNE\nBUF\n")
	first := time.Date(2022, time.December, 1, 12, 0, 0, 0, time.UTC)
	clock := fixedClock(first, first.Add(time.Second))

	run := func() time.Time {
		ing, err := New([]string{path}, Options{Now: clock})
		require.NoError(t, err)
		_, err = ing.Preprocess()
		require.NoError(t, err)
		table, err := ing.Table()
		require.NoError(t, err)
		values := table.Column(table.Index(CreationDateColumn)).Values
		require.True(t, values[0].Time().Equal(values[1].Time()))
		return values[0].Time()
	}

	a, b := run(), run()
	require.False(t, a.Equal(b))
	require.True(t, first.Equal(a))
}

func TestEnsureColumnsAfterPreprocess(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "games_2022.csv", "Team\nNE\nBUF\n")

	ing, err := New([]string{path}, Options{})
	require.NoError(t, err)
	_, err = ing.Preprocess()
	require.NoError(t, err)

	require.NoError(t, ing.EnsureColumns("new_field", "team"))
	table, err := ing.Table()
	require.NoError(t, err)
	require.Equal(t, []string{"team", "statsyear", "creation_date", "new_field"}, table.Names())
	for _, v := range table.Column(3).Values {
		require.True(t, v.IsMissing())
	}
}

func TestNewValidatesInputs(t *testing.T) {
	_, err := New(nil, Options{})
	require.Error(t, err)

	_, err = New([]string{"a_2020.csv"}, Options{HeaderRows: []int{1, 0}})
	require.Error(t, err)
}

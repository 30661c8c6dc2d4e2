package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/gewnthar/statsprep/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func cells(values ...string) []models.Value {
	out := make([]models.Value, len(values))
	for i, v := range values {
		out[i] = models.ParseCell(v)
	}
	return out
}

func mustTable(t *testing.T, columns ...models.Column) models.Table {
	t.Helper()
	table, err := models.NewTable(columns...)
	require.NoError(t, err)
	return table
}

func texts(c models.Column) []string {
	out := make([]string, len(c.Values))
	for i, v := range c.Values {
		out[i] = v.String()
	}
	return out
}

func TestNormalizeColumnName(t *testing.T) {
	cases := []struct {
		in, expected string
	}{
		{"Yds/Att", "yds_or_att"},
		{"Win %", "win_ratio"},
		{"3rd Down (Att)", "3rd_down_att"},
		{"  Team ", "team"},
		{"+/-", "_plus_or_minus_"},
		{"Y/A.", "y_or_a_"},
		{"Pts:", "pts"},
		{"Opp's & Tm", "opps_and_tm"},
		{"Passing_Yds", "passing_yds"},
		{"Rk.1", "rk_1"},
		{"StatsYear", "statsyear"},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, NormalizeColumnName(c.in), "input %q", c.in)
	}
}

func TestNormalizeColumnNameIsIdempotent(t *testing.T) {
	inputs := []string{"Yds/Att", "Win %", "3rd Down (Att)", "+/-", "Opp's & Tm", "Y/A.", "Cmp%", "1D-Pen", "Sk:Yds"}
	for _, in := range inputs {
		once := NormalizeColumnName(in)
		require.Equal(t, once, NormalizeColumnName(once), "input %q", in)
	}
}

func TestFlattenHeaders(t *testing.T) {
	table := mustTable(t,
		models.Column{Header: []string{"Unnamed: 0_level_0", "Rk"}, Values: cells("1")},
		models.Column{Header: []string{"Passing", "Yds"}, Values: cells("250")},
		models.Column{Header: []string{"Unnamed: 2_level_0", "Unnamed: 2_level_1"}, Values: cells("")},
	)

	flat, err := FlattenHeaders(table)
	require.NoError(t, err)
	require.Equal(t, []string{"Rk", "Passing_Yds", "Unnamed: 2_level_1"}, flat.Names())
	for _, c := range flat.Columns() {
		require.Len(t, c.Header, 1)
	}
}

func TestConcatFillsMissingColumns(t *testing.T) {
	a := mustTable(t,
		models.NewColumn("Team", cells("NE", "NYJ")),
		models.NewColumn("W", cells("10", "4")),
	)
	b := mustTable(t,
		models.NewColumn("W", cells("12")),
		models.NewColumn("Team", cells("BUF")),
		models.NewColumn("T", cells("1")),
	)

	merged, err := Concat(a, b)
	require.NoError(t, err)
	require.Equal(t, []string{"Team", "W", "T"}, merged.Names())
	require.Equal(t, 3, merged.NumRows())

	if diff := cmp.Diff([]string{"NE", "NYJ", "BUF"}, texts(merged.Column(0))); diff != "" {
		t.Errorf("Team mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"10", "4", "12"}, texts(merged.Column(1))); diff != "" {
		t.Errorf("W mismatch (-want +got):\n%s", diff)
	}
	tie := merged.Column(2).Values
	require.True(t, tie[0].IsMissing())
	require.True(t, tie[1].IsMissing())
	require.Equal(t, "1", tie[2].String())
}

func TestDropUnnamed(t *testing.T) {
	table := mustTable(t,
		models.NewColumn("Rk", cells("1")),
		models.NewColumn("Unnamed: 1", cells("")),
		models.NewColumn("Team", cells("NE")),
	)

	out, dropped := DropUnnamed(table)
	require.Equal(t, []string{"Rk", "Team"}, out.Names())
	require.Equal(t, []string{"Unnamed: 1"}, dropped)
	require.Equal(t, 1, out.NumRows())

	_, none := DropUnnamed(out)
	require.Empty(t, none)
}

func TestApplyColumnNameMap(t *testing.T) {
	table := mustTable(t,
		models.NewColumn("Yds/Att", cells("7.1")),
		models.NewColumn("Win %", cells("0.5")),
	)
	m := BuildColumnNameMap(table)

	cleaned, ok := m.Lookup("Win %")
	require.True(t, ok)
	require.Equal(t, "win_ratio", cleaned)
	require.Equal(t, []string{"Yds/Att", "Win %"}, table.Names(), "building the map must not rename")

	renamed, err := ApplyColumnNameMap(table, m, CollisionError)
	require.NoError(t, err)
	require.Equal(t, []string{"yds_or_att", "win_ratio"}, renamed.Names())
	require.Equal(t, "7.1", renamed.Column(0).Values[0].String())
}

func TestApplyColumnNameMapCollisions(t *testing.T) {
	table := mustTable(t,
		models.NewColumn("Win %", cells("0.5")),
		models.NewColumn("win_ratio", cells("0.6")),
		models.NewColumn("WIN %", cells("0.7")),
		models.NewColumn("win_ratio_2", cells("0.8")),
	)
	m := BuildColumnNameMap(table)

	_, err := ApplyColumnNameMap(table, m, CollisionError)
	require.True(t, errors.Is(err, ErrColumnCollision))
	var collision *ColumnCollisionError
	require.True(t, errors.As(err, &collision))
	require.Equal(t, "win_ratio", collision.Name)
	require.Equal(t, []string{"Win %", "win_ratio", "WIN %"}, collision.Originals)

	renamed, err := ApplyColumnNameMap(table, m, CollisionSuffix)
	require.NoError(t, err)
	require.Equal(t, []string{"win_ratio", "win_ratio_3", "win_ratio_4", "win_ratio_2"}, renamed.Names())

	kept, err := ApplyColumnNameMap(table, m, CollisionAllow)
	require.NoError(t, err)
	require.Equal(t, []string{"win_ratio", "win_ratio", "win_ratio", "win_ratio_2"}, kept.Names())
	require.Equal(t, "0.7", kept.Column(2).Values[0].String())
}

func TestApplyColumnNameMapRejectsStaleMap(t *testing.T) {
	table := mustTable(t, models.NewColumn("Team", cells("NE")))
	other := mustTable(t, models.NewColumn("Tm", cells("NE")))

	_, err := ApplyColumnNameMap(table, BuildColumnNameMap(other), CollisionError)
	require.Error(t, err)
}

func TestAddCreationDate(t *testing.T) {
	table := mustTable(t, models.NewColumn("team", cells("NE", "BUF", "MIA")))
	ts := time.Date(2022, time.September, 8, 19, 0, 0, 0, time.UTC)

	stamped, err := AddCreationDate(table, ts)
	require.NoError(t, err)
	require.Equal(t, []string{"team", CreationDateColumn}, stamped.Names())
	for _, v := range stamped.Column(1).Values {
		require.Equal(t, models.KindTimestamp, v.Kind())
		require.True(t, ts.Equal(v.Time()))
	}

	later := ts.Add(time.Hour)
	restamped, err := AddCreationDate(stamped, later)
	require.NoError(t, err)
	require.Equal(t, 2, restamped.NumCols())
	require.True(t, later.Equal(restamped.Column(1).Values[0].Time()))
}

func TestEnsureColumns(t *testing.T) {
	table := mustTable(t, models.NewColumn("team", cells("NE", "BUF")))

	out, err := EnsureColumns(table, "new_field")
	require.NoError(t, err)
	require.Equal(t, []string{"team", "new_field"}, out.Names())
	for _, v := range out.Column(1).Values {
		require.True(t, v.IsMissing())
	}

	again, err := EnsureColumns(out, "new_field", "team")
	require.NoError(t, err)
	require.Equal(t, out.Names(), again.Names())
}

func TestParseCollisionPolicy(t *testing.T) {
	p, err := ParseCollisionPolicy("")
	require.NoError(t, err)
	require.Equal(t, CollisionError, p)

	p, err = ParseCollisionPolicy("Suffix")
	require.NoError(t, err)
	require.Equal(t, CollisionSuffix, p)

	p, err = ParseCollisionPolicy(" allow ")
	require.NoError(t, err)
	require.Equal(t, CollisionAllow, p)

	_, err = ParseCollisionPolicy("merge")
	require.Error(t, err)
}

package database

import (
	"testing"
	"time"

	"github.com/gewnthar/statsprep/models"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

func TestPostgresColumnTypesSQL(t *testing.T) {
	require.Equal(t,
		`SELECT "team", "win ratio" FROM "bronze_games"."games" LIMIT 0`,
		postgresColumnTypesSQL("bronze_games", "games", []string{"team", "win ratio"}))
}

func TestCopyValueEncodesBinary(t *testing.T) {
	m := pgtype.NewMap()
	ts := time.Date(2022, time.September, 8, 19, 0, 0, 0, time.UTC)

	cases := []struct {
		value models.Value
		oid   uint32
	}{
		{models.ParseCell("12"), pgtype.Int2OID},
		{models.ParseCell("12"), pgtype.Int4OID},
		{models.ParseCell("2022"), pgtype.Int8OID},
		{models.ParseCell("12"), pgtype.NumericOID},
		{models.ParseCell("0.588"), pgtype.NumericOID},
		{models.ParseCell("0.588"), pgtype.Float8OID},
		{models.ParseCell("12"), pgtype.Float4OID},
		{models.ParseCell("12"), pgtype.TextOID},
		{models.ParseCell("Patriots"), pgtype.TextOID},
		{models.ParseCell("Patriots"), pgtype.VarcharOID},
		{models.Timestamp(ts), pgtype.TimestamptzOID},
		{models.Timestamp(ts), pgtype.TextOID},
		{models.Missing(), pgtype.Int4OID},
	}
	for _, c := range cases {
		arg, err := copyValue(c.value, c.oid)
		require.NoError(t, err, "%q as oid %d", c.value.String(), c.oid)
		_, err = m.Encode(c.oid, pgtype.BinaryFormatCode, arg, nil)
		require.NoError(t, err, "%q as oid %d", c.value.String(), c.oid)
	}
}

func TestCopyValueConversions(t *testing.T) {
	ts := time.Date(2022, time.September, 8, 19, 0, 0, 0, time.UTC)

	arg, err := copyValue(models.ParseCell("2022"), pgtype.Int8OID)
	require.NoError(t, err)
	require.Equal(t, int64(2022), arg)

	arg, err = copyValue(models.ParseCell("0.588"), pgtype.NumericOID)
	require.NoError(t, err)
	require.Equal(t, 0.588, arg)

	arg, err = copyValue(models.ParseCell("12"), pgtype.TextOID)
	require.NoError(t, err)
	require.Equal(t, "12", arg)

	arg, err = copyValue(models.Timestamp(ts), pgtype.TextOID)
	require.NoError(t, err)
	require.Equal(t, "2022-09-08 19:00:00.000000+00:00", arg)

	arg, err = copyValue(models.Missing(), pgtype.NumericOID)
	require.NoError(t, err)
	require.Nil(t, arg)

	_, err = copyValue(models.ParseCell("0.588"), pgtype.Int4OID)
	require.Error(t, err)

	args, err := copyArgs(
		[]models.Value{models.String("NE"), models.ParseCell("14"), models.Missing()},
		[]uint32{pgtype.TextOID, pgtype.Int4OID, pgtype.Float8OID})
	require.NoError(t, err)
	require.Equal(t, []any{"NE", int64(14), nil}, args)

	_, err = copyArgs([]models.Value{models.ParseCell("1.5")}, []uint32{pgtype.Int4OID})
	require.Error(t, err)
}

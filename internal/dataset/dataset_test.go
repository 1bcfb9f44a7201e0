package dataset

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreshold(t *testing.T) {
	tests := map[string]int{
		"USA":       9,
		"Australia": 9,
		"UK":        9,
		"Canada":    8,
		"Germany":   8,
	}
	for dest, want := range tests {
		got, err := Threshold(dest)
		require.NoError(t, err)
		assert.Equal(t, want, got, dest)
	}

	_, err := Threshold("France")
	assert.Error(t, err)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want int
	}{
		{
			name: "best profile",
			row:  Row{MonthlyIncome: 60000, Education: "Masters", Employment: "Employed", TravelHistory: 3, EnglishLevel: "High"},
			want: 13,
		},
		{
			name: "weakest profile",
			row:  Row{MonthlyIncome: 5000, Education: "HighSchool", Employment: "Unemployed", EnglishLevel: "Low"},
			want: 1,
		},
		{
			name: "criminal record",
			row:  Row{MonthlyIncome: 30000, Education: "Bachelors", Employment: "Employed", TravelHistory: 1, EnglishLevel: "Medium", CriminalRecord: 1},
			want: 3,
		},
		{
			name: "income band floor",
			row:  Row{MonthlyIncome: 15000, Education: "HighSchool", EnglishLevel: "Low"},
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.row))
		})
	}
}

func TestLabel(t *testing.T) {
	row := Row{DestinationCountry: "Germany", MonthlyIncome: 30000, Education: "Bachelors", Employment: "Employed", TravelHistory: 1, EnglishLevel: "Medium"}
	got, err := Label(row)
	require.NoError(t, err)
	assert.Equal(t, 1, got, "score 8 meets Germany threshold 8")

	row.DestinationCountry = "USA"
	got, err = Label(row)
	require.NoError(t, err)
	assert.Equal(t, 0, got, "score 8 misses USA threshold 9")
}

func TestGenerator_RowsRespectRanges(t *testing.T) {
	g := NewGenerator(42)
	for i := 0; i < 2000; i++ {
		r := g.Row()
		assert.GreaterOrEqual(t, r.Age, 18)
		assert.LessOrEqual(t, r.Age, 49)
		assert.GreaterOrEqual(t, r.MonthlyIncome, 5000)
		assert.LessOrEqual(t, r.MonthlyIncome, 100000)
		assert.GreaterOrEqual(t, r.TravelHistory, 0)
		assert.LessOrEqual(t, r.TravelHistory, 3)
		assert.Contains(t, []int{0, 1}, r.CriminalRecord)
		assert.Contains(t, HomeCountries, r.HomeCountry)
		assert.Contains(t, Destinations, r.DestinationCountry)

		want, err := Label(r)
		require.NoError(t, err)
		assert.Equal(t, want, r.VisaApproved)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	a, b := NewGenerator(7), NewGenerator(7)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Row(), b.Row())
	}
}

func TestGenerator_WriteCSV(t *testing.T) {
	var buf bytes.Buffer
	summary, err := NewGenerator(1).WriteCSV(&buf, 250)
	require.NoError(t, err)
	assert.Equal(t, 250, summary.Rows)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 251)
	assert.Equal(t, Columns, records[0])

	approved := 0
	for _, rec := range records[1:] {
		require.Len(t, rec, len(Columns))
		label, err := strconv.Atoi(rec[10])
		require.NoError(t, err)
		approved += label
	}
	assert.Equal(t, summary.Approved, approved)
	assert.InDelta(t, float64(approved)/250, summary.ApprovalRate(), 1e-9)
}

func TestGenerator_WriteCSV_NegativeRows(t *testing.T) {
	_, err := NewGenerator(1).WriteCSV(&bytes.Buffer{}, -1)
	assert.Error(t, err)
}

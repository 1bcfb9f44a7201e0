package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
)

// DefaultRows matches the size of the published training set.
const DefaultRows = 8761

// Columns is the CSV header, in feature order followed by the label.
var Columns = []string{
	"age",
	"home_country",
	"destination_country",
	"education",
	"employment",
	"monthly_income",
	"travel_purpose",
	"travel_history",
	"criminal_record",
	"english_level",
	"visa_approved",
}

const (
	minAge, maxAge       = 18, 49
	minIncome, maxIncome = 5000, 100000
	maxTravelHistory     = 3
	criminalWeight       = 10 // out of 100
)

// Generator draws labelled rows from a seeded source. It is not safe for
// concurrent use.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// Row draws one applicant and labels it.
func (g *Generator) Row() Row {
	r := Row{
		Age:                g.between(minAge, maxAge),
		HomeCountry:        g.pick(HomeCountries),
		DestinationCountry: g.pick(Destinations),
		Education:          g.pick(Educations),
		Employment:         g.pick(Employments),
		MonthlyIncome:      g.between(minIncome, maxIncome),
		TravelPurpose:      g.pick(Purposes),
		TravelHistory:      g.between(0, maxTravelHistory),
		EnglishLevel:       g.pick(EnglishLevels),
	}
	if g.rng.Intn(100) < criminalWeight {
		r.CriminalRecord = 1
	}
	// Destinations come from the rule table, so Label cannot fail here.
	r.VisaApproved, _ = Label(r)
	return r
}

// Summary describes a generated file.
type Summary struct {
	Rows     int
	Approved int
}

// ApprovalRate is the share of approved rows.
func (s Summary) ApprovalRate() float64 {
	if s.Rows == 0 {
		return 0
	}
	return float64(s.Approved) / float64(s.Rows)
}

// WriteCSV streams n rows with a header to w.
func (g *Generator) WriteCSV(w io.Writer, n int) (Summary, error) {
	if n < 0 {
		return Summary{}, fmt.Errorf("row count must be non-negative, got %d", n)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return Summary{}, fmt.Errorf("failed to write header: %w", err)
	}

	var s Summary
	for i := 0; i < n; i++ {
		r := g.Row()
		if err := cw.Write(r.Record()); err != nil {
			return s, fmt.Errorf("failed to write row %d: %w", i, err)
		}
		s.Rows++
		s.Approved += r.VisaApproved
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return s, fmt.Errorf("failed to flush csv: %w", err)
	}
	return s, nil
}

// Record renders the row in Columns order.
func (r Row) Record() []string {
	return []string{
		strconv.Itoa(r.Age),
		r.HomeCountry,
		r.DestinationCountry,
		r.Education,
		r.Employment,
		strconv.Itoa(r.MonthlyIncome),
		r.TravelPurpose,
		strconv.Itoa(r.TravelHistory),
		strconv.Itoa(r.CriminalRecord),
		r.EnglishLevel,
		strconv.Itoa(r.VisaApproved),
	}
}

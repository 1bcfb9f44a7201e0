package classifier

import (
	"os"
	"path/filepath"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "visa-predictor/internal/common/errors"
	"visa-predictor/internal/common/logger"
	"visa-predictor/internal/common/metrics"
	"visa-predictor/internal/visa"
)

// ==========================
// Test Helper Functions
// ==========================

func counterValue(t *testing.T, field string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, metrics.EncoderFallbacks.WithLabelValues(field).Write(m))
	return m.GetCounter().GetValue()
}

func observedLogger() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.NewZapAdapter(zap.New(core)), logs
}

func testProfile() visa.Profile {
	return visa.Profile{
		Age:                30,
		HomeCountry:        "India",
		DestinationCountry: "Germany",
		Education:          visa.EducationMasters,
		Employment:         visa.EmploymentEmployed,
		MonthlyIncome:      90000,
		TravelPurpose:      visa.PurposeStudy,
		TravelHistory:      3,
		EnglishLevel:       visa.EnglishHigh,
	}
}

// ==========================
// Label Encoder
// ==========================

func TestDefaultLabelEncoder_SortedCodes(t *testing.T) {
	enc := DefaultLabelEncoder(nil)

	tests := []struct {
		field, value string
		want         int
	}{
		{FieldHomeCountry, "Brazil", 0},
		{FieldHomeCountry, "Philippines", 4},
		{FieldDestination, "Australia", 0},
		{FieldDestination, "USA", 4},
		{FieldEducation, "HighSchool", 1},
		{FieldEmployment, "Unemployed", 1},
		{FieldTravelPurpose, "Tourist", 2},
		{FieldEnglishLevel, "Medium", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, enc.Encode(tt.field, tt.value), "%s=%s", tt.field, tt.value)
	}

	v, ok := enc.Decode(FieldDestination, 2)
	assert.True(t, ok)
	assert.Equal(t, "Germany", v)

	_, ok = enc.Decode(FieldDestination, 9)
	assert.False(t, ok)
}

func TestLabelEncoder_UnseenValueFallsBack(t *testing.T) {
	log, logs := observedLogger()
	enc := DefaultLabelEncoder(log)

	before := counterValue(t, FieldTravelPurpose)
	assert.Equal(t, FallbackCode, enc.Encode(FieldTravelPurpose, "Tourism"))
	assert.Equal(t, before+1, counterValue(t, FieldTravelPurpose))

	entries := logs.FilterMessage("Unseen categorical value encoded as fallback").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "Tourism", entries[0].ContextMap()["value"])
	assert.Equal(t, FieldTravelPurpose, entries[0].ContextMap()["field"])
}

func TestNewLabelEncoder_Rejects(t *testing.T) {
	classes := DefaultClasses()
	delete(classes, FieldEnglishLevel)
	_, err := NewLabelEncoder(classes, nil)
	assert.Error(t, err)

	classes = DefaultClasses()
	classes[FieldEducation] = []string{"Masters", "Masters"}
	_, err = NewLabelEncoder(classes, nil)
	assert.Error(t, err)
}

func TestLoadLabelEncoder(t *testing.T) {
	dir := t.TempDir()

	t.Run("round trip", func(t *testing.T) {
		raw, err := DefaultLabelEncoder(nil).MarshalJSON()
		require.NoError(t, err)
		path := filepath.Join(dir, "encoder.json")
		require.NoError(t, os.WriteFile(path, raw, 0o600))

		enc, err := LoadLabelEncoder(path, logger.NewTestLogger(t))
		require.NoError(t, err)
		assert.Equal(t, 3, enc.Encode(FieldHomeCountry, "Nigeria"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadLabelEncoder(filepath.Join(dir, "nope.json"), nil)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeEncoderLoadFailed))
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"home_country": 3}`), 0o600))
		_, err := LoadLabelEncoder(path, nil)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeEncoderLoadFailed))
	})
}

// ==========================
// Features
// ==========================

func TestEncodeProfile(t *testing.T) {
	p := testProfile()
	p.CriminalRecord = true

	f := EncodeProfile(p, DefaultLabelEncoder(nil))
	assert.Equal(t, Features{30, 1, 2, 2, 0, 90000, 1, 3, 1, 0}, f)
	assert.Len(t, FeatureNames, len(f))
}

func TestFeatures_Key(t *testing.T) {
	a := Features{30, 1, 2, 2, 0, 90000, 1, 3, 0, 0}
	b := Features{30, 1, 2, 2, 0, 90000, 1, 3, 0, 0}
	c := Features{30, 1, 2, 2, 0, 90000, 1, 3, 1, 0}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Len(t, a.Key(), 64)
}

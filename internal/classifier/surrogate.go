package classifier

import (
	"context"
	"fmt"
	"math"

	"visa-predictor/internal/common/metrics"
	"visa-predictor/internal/dataset"
)

const (
	surrogateSource = "surrogate"

	// surrogateSlope sets how fast the probability saturates around the
	// generator threshold.
	surrogateSlope = 1.5
)

// SurrogateModel reproduces the rule the real model was trained to imitate.
// It runs in-process and backs development, tests and remote outages.
type SurrogateModel struct {
	encoder *LabelEncoder
}

func NewSurrogateModel(encoder *LabelEncoder) *SurrogateModel {
	return &SurrogateModel{encoder: encoder}
}

func (m *SurrogateModel) Name() string {
	return surrogateSource
}

func (m *SurrogateModel) Predict(ctx context.Context, f Features) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if len(f) != len(FeatureNames) {
		metrics.ClassifierRequests.WithLabelValues(surrogateSource, "error").Inc()
		return Output{}, fmt.Errorf("expected %d features, got %d", len(FeatureNames), len(f))
	}

	row := dataset.Row{
		Age:                int(f[idxAge]),
		DestinationCountry: m.decode(FieldDestination, f[idxDestination]),
		Education:          m.decode(FieldEducation, f[idxEducation]),
		Employment:         m.decode(FieldEmployment, f[idxEmployment]),
		MonthlyIncome:      int(f[idxIncome]),
		TravelHistory:      int(f[idxTravelHistory]),
		CriminalRecord:     int(f[idxCriminal]),
		EnglishLevel:       m.decode(FieldEnglishLevel, f[idxEnglish]),
	}

	threshold, err := dataset.Threshold(row.DestinationCountry)
	if err != nil {
		metrics.ClassifierRequests.WithLabelValues(surrogateSource, "error").Inc()
		return Output{}, err
	}

	margin := float64(dataset.Score(row)-threshold) + 0.5
	p := 1 / (1 + math.Exp(-surrogateSlope*margin))

	class := 0
	if p >= 0.5 {
		class = 1
	}

	metrics.ClassifierRequests.WithLabelValues(surrogateSource, "ok").Inc()
	return Output{
		PredictedClass: class,
		Probabilities:  []float64{1 - p, p},
		Source:         surrogateSource,
	}, nil
}

func (m *SurrogateModel) decode(field string, code float64) string {
	v, _ := m.encoder.Decode(field, int(code))
	return v
}

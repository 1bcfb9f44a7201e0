package classifier

import (
	"context"
	"fmt"
	"math"

	"visa-predictor/internal/common/errors"
	"visa-predictor/internal/common/logger"
	"visa-predictor/internal/visa"
)

// Output is the model reply: the predicted class and [p(reject), p(approve)].
type Output struct {
	PredictedClass int       `json:"predicted_class"`
	Probabilities  []float64 `json:"probabilities"`
	Source         string    `json:"source,omitempty"`
}

// Validate checks the shape of a reply.
func (o Output) Validate() error {
	if o.PredictedClass != 0 && o.PredictedClass != 1 {
		return fmt.Errorf("predicted_class must be 0 or 1, got %d", o.PredictedClass)
	}
	if len(o.Probabilities) != 2 {
		return fmt.Errorf("expected 2 probabilities, got %d", len(o.Probabilities))
	}
	for _, p := range o.Probabilities {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("probability out of range [0,1]: %v", p)
		}
	}
	return nil
}

// Model scores an encoded feature vector.
type Model interface {
	Predict(ctx context.Context, f Features) (Output, error)
	Name() string
}

// ReadinessChecker is implemented by models with an external dependency.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// Adapter implements visa.Classifier on top of an encoder and a Model.
type Adapter struct {
	encoder *LabelEncoder
	model   Model
	logger  logger.Logger
}

func NewAdapter(encoder *LabelEncoder, model Model, log logger.Logger) *Adapter {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Adapter{
		encoder: encoder,
		model:   model,
		logger:  log.WithFields(map[string]interface{}{"component": "classifier", "model": model.Name()}),
	}
}

func (a *Adapter) Predict(ctx context.Context, p visa.Profile) (visa.Prediction, error) {
	out, err := a.model.Predict(ctx, EncodeProfile(p, a.encoder))
	if err != nil {
		return visa.Prediction{}, err
	}
	if err := out.Validate(); err != nil {
		return visa.Prediction{}, errors.NewClassifierInvalidResponseError(a.model.Name(), err.Error())
	}

	source := out.Source
	if source == "" {
		source = a.model.Name()
	}
	return visa.Prediction{
		Class:       out.PredictedClass,
		Probability: out.Probabilities[1],
		Source:      source,
	}, nil
}

// Ready reports whether the model can serve.
func (a *Adapter) Ready(ctx context.Context) error {
	if rc, ok := a.model.(ReadinessChecker); ok {
		return rc.Ready(ctx)
	}
	return nil
}

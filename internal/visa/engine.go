package visa

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"visa-predictor/internal/common/errors"
	"visa-predictor/internal/common/logger"
	"visa-predictor/internal/common/metrics"
)

// Prediction is the classifier view of one profile.
type Prediction struct {
	Class       int     // 1 approved, 0 rejected
	Probability float64 // probability of approval in [0,1]
	Source      string  // model that produced it
}

// Classifier turns a profile into a prediction. Implementations encode the
// profile themselves.
type Classifier interface {
	Predict(ctx context.Context, p Profile) (Prediction, error)
}

// DecisionRecorder receives one event per decision.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, status, source string, duration time.Duration)
}

type EngineOptions struct {
	Table      *DifficultyTable
	Classifier Classifier
	Logger     logger.Logger
	Tracer     trace.Tracer
	Recorder   DecisionRecorder
}

// Engine produces decisions. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	table      *DifficultyTable
	classifier Classifier
	logger     logger.Logger
	tracer     trace.Tracer
	recorder   DecisionRecorder
}

func NewEngine(opts EngineOptions) *Engine {
	e := &Engine{
		table:      opts.Table,
		classifier: opts.Classifier,
		logger:     opts.Logger,
		tracer:     opts.Tracer,
		recorder:   opts.Recorder,
	}
	if e.table == nil {
		e.table = DefaultDifficultyTable()
	}
	if e.logger == nil {
		e.logger = logger.NewNoOpLogger()
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer("visa-predictor/visa")
	}
	e.logger = e.logger.WithFields(map[string]interface{}{"component": "decision-engine"})
	return e
}

// Table returns the difficulty table the engine decides against.
func (e *Engine) Table() *DifficultyTable {
	return e.table
}

// Decide runs gates, classification, adjustment, scoring, fusion and
// alternate ranking for one applicant.
func (e *Engine) Decide(ctx context.Context, p Profile) (*Result, error) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "visa.Decide", trace.WithAttributes(
		attribute.String("visa.destination", p.DestinationCountry),
	))
	defer span.End()

	if res, gateName := CheckGates(p); res != nil {
		span.SetAttributes(attribute.String("visa.gate", gateName))
		e.logger.Info("Applicant stopped at eligibility gate", map[string]interface{}{
			"gate":        gateName,
			"destination": p.DestinationCountry,
		})
		e.observe(ctx, res, "gated", "gate", start)
		return res, nil
	}

	difficulty, ok := e.table.Lookup(p.DestinationCountry)
	if !ok {
		err := errors.NewUnknownDestinationError(p.DestinationCountry)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(err.Code))
		return nil, err
	}

	pred, err := e.predict(ctx, p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(errors.AsStandardError(err).Code))
		return nil, err
	}

	adjusted := AdjustProbability(pred.Probability, difficulty, bool(p.CriminalRecord))
	strength := ProfileStrength(p)
	ruleStatus := RuleStatus(strength)
	modelStatus := ModelStatus(adjusted)

	res := &Result{
		VisaApproved:                pred.Class == 1,
		ApprovalProbability:         percent(adjusted),
		Status:                      FuseStatus(ruleStatus, modelStatus),
		ProfileStrengthScore:        strength,
		RejectionReasons:            RejectionReasons(p),
		AlternateCountrySuggestions: SuggestAlternates(e.table, difficulty, adjusted),
	}

	span.SetAttributes(
		attribute.String("visa.status", string(res.Status)),
		attribute.String("visa.model_source", pred.Source),
		attribute.Float64("visa.probability", res.ApprovalProbability),
	)
	e.logger.Debug("Decision produced", map[string]interface{}{
		"destination": p.DestinationCountry,
		"source":      pred.Source,
		"rawProb":     pred.Probability,
		"adjusted":    res.ApprovalProbability,
		"strength":    strength,
		"ruleStatus":  string(ruleStatus),
		"modelStatus": string(modelStatus),
		"status":      string(res.Status),
	})

	outcome := "rejected"
	if res.VisaApproved {
		outcome = "approved"
	}
	e.observe(ctx, res, outcome, pred.Source, start)
	return res, nil
}

func (e *Engine) predict(ctx context.Context, p Profile) (Prediction, error) {
	ctx, span := e.tracer.Start(ctx, "visa.Classify")
	defer span.End()

	pred, err := e.classifier.Predict(ctx, p)
	if err != nil {
		stdErr := errors.AsStandardError(err)
		if stdErr.Code == errors.ErrCodeInternal {
			stdErr = errors.NewClassifierUnavailableError("model", err)
		}
		e.logger.Error("Classifier failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
		return Prediction{}, stdErr
	}

	pred.Probability = clamp01(pred.Probability)
	span.SetAttributes(attribute.Int("visa.predicted_class", pred.Class))
	return pred, nil
}

func (e *Engine) observe(ctx context.Context, res *Result, outcome, source string, start time.Time) {
	elapsed := time.Since(start)
	metrics.VisaDecisions.WithLabelValues(string(res.Status), outcome).Inc()
	metrics.VisaDecisionDuration.Observe(elapsed.Seconds())
	if e.recorder != nil {
		e.recorder.RecordDecision(ctx, string(res.Status), source, elapsed)
	}
}

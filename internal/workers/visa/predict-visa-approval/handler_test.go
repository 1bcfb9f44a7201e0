package predictvisaapproval

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"visa-predictor/internal/common/config"
	"visa-predictor/internal/common/errors"
	"visa-predictor/internal/common/logger"
	"visa-predictor/internal/common/validation"
	"visa-predictor/internal/visa"
)

// ==========================
// Mock Classifier
// ==========================

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Predict(ctx context.Context, p visa.Profile) (visa.Prediction, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(visa.Prediction), args.Error(1)
}

// ==========================
// Mock Job Helper
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	activatedJob := &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "visa-application",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_PredictVisaApproval",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Deadline:                 0,
		Variables:                string(variablesJSON),
	}

	return entities.Job{ActivatedJob: activatedJob}
}

// ==========================
// Test Helpers
// ==========================

func validVariables() map[string]interface{} {
	return map[string]interface{}{
		"age":                 30,
		"home_country":        "India",
		"destination_country": "Germany",
		"education":           "Masters",
		"employment":          "Employed",
		"monthly_income":      90000,
		"travel_purpose":      "Study",
		"travel_history":      3,
		"criminal_record":     0,
		"english_level":       "High",
		"applicationId":       "APP-1001",
	}
}

func expectedProfile() visa.Profile {
	return visa.Profile{
		Age:                30,
		HomeCountry:        "India",
		DestinationCountry: "Germany",
		Education:          visa.EducationMasters,
		Employment:         visa.EmploymentEmployed,
		MonthlyIncome:      90000,
		TravelPurpose:      visa.PurposeStudy,
		TravelHistory:      3,
		CriminalRecord:     false,
		EnglishLevel:       visa.EnglishHigh,
	}
}

func newTestHandler(t *testing.T, classifier visa.Classifier) *Handler {
	t.Helper()
	log := logger.NewTestLogger(t)
	h, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Engine:       visa.NewEngine(visa.EngineOptions{Classifier: classifier, Logger: log}),
		Logger:       log,
	})
	require.NoError(t, err)
	h.newID = func() string { return "decision-1" }
	return h
}

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	engine := visa.NewEngine(visa.EngineOptions{Classifier: &MockClassifier{}})

	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr bool
	}{
		{
			name: "default configuration",
			opts: HandlerOptions{Engine: engine, Logger: logger.NewNoOpLogger()},
		},
		{
			name:    "missing engine",
			opts:    HandlerOptions{Logger: logger.NewNoOpLogger()},
			wantErr: true,
		},
		{
			name: "invalid timeout",
			opts: HandlerOptions{
				Engine:       engine,
				CustomConfig: &Config{Enabled: true, MaxJobsActive: 1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandler(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TaskType, h.GetTaskType())
			assert.True(t, h.IsEnabled())
		})
	}
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: false, MaxJobsActive: 12, Timeout: 4500, MaxRetries: intPtr(1)},
		},
	}

	cfg := createConfigFromAppConfig(appCfg, nil)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 12, cfg.MaxJobsActive)
	assert.Equal(t, 4500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, 1, cfg.MaxRetries)

	custom := &Config{Enabled: true, MaxJobsActive: 1, Timeout: time.Second}
	assert.Same(t, custom, createConfigFromAppConfig(appCfg, custom))
	assert.Equal(t, DefaultConfig(), createConfigFromAppConfig(nil, nil))
}

func TestCreateConfigFromAppConfig_MaxRetries(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries *int
		want       int
	}{
		{"unset keeps default", nil, DefaultConfig().MaxRetries},
		{"explicit zero disables retries", intPtr(0), 0},
		{"explicit value", intPtr(5), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appCfg := &config.Config{Workers: map[string]config.WorkerConfig{
				TaskType: {Enabled: true, MaxRetries: tt.maxRetries},
			}}
			cfg := createConfigFromAppConfig(appCfg, nil)
			assert.Equal(t, tt.want, cfg.MaxRetries)
			assert.NoError(t, cfg.Validate())
		})
	}
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h := newTestHandler(t, &MockClassifier{})

	t.Run("valid variables", func(t *testing.T) {
		input, err := h.parseInput(createMockJob(1, validVariables()))
		require.NoError(t, err)
		assert.Equal(t, expectedProfile(), input.Profile)
	})

	t.Run("boolean criminal record", func(t *testing.T) {
		vars := validVariables()
		vars["criminal_record"] = true
		input, err := h.parseInput(createMockJob(2, vars))
		require.NoError(t, err)
		assert.True(t, bool(input.Profile.CriminalRecord))
	})

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing age", func(v map[string]interface{}) { delete(v, "age") }},
		{"null destination", func(v map[string]interface{}) { v["destination_country"] = nil }},
		{"negative income", func(v map[string]interface{}) { v["monthly_income"] = -1 }},
		{"fractional age", func(v map[string]interface{}) { v["age"] = 30.5 }},
		{"unknown destination", func(v map[string]interface{}) { v["destination_country"] = "Atlantis" }},
		{"unknown education", func(v map[string]interface{}) { v["education"] = "PhD" }},
		{"criminal record out of range", func(v map[string]interface{}) { v["criminal_record"] = 2 }},
		{"criminal record as string", func(v map[string]interface{}) { v["criminal_record"] = "no" }},
		{"empty home country", func(v map[string]interface{}) { v["home_country"] = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := validVariables()
			tt.mutate(vars)
			_, err := h.parseInput(createMockJob(3, vars))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed), "got %v", err)
		})
	}

	t.Run("malformed variables", func(t *testing.T) {
		job := createMockJob(4, nil)
		job.Variables = "{not json"
		_, err := h.parseInput(job)
		assert.True(t, errors.HasCode(err, errors.ErrCodeInputParsingFailed))
	})
}

func TestHandler_ParseInput_UnseenPurposeAccepted(t *testing.T) {
	h := newTestHandler(t, &MockClassifier{})
	vars := validVariables()
	vars["travel_purpose"] = "Medical"

	input, err := h.parseInput(createMockJob(5, vars))
	require.NoError(t, err)
	assert.Equal(t, visa.TravelPurpose("Medical"), input.Profile.TravelPurpose)
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	classifier := &MockClassifier{}
	classifier.On("Predict", mock.Anything, expectedProfile()).
		Return(visa.Prediction{Class: 1, Probability: 0.9, Source: "stub"}, nil).Once()

	h := newTestHandler(t, classifier)
	out, err := h.Execute(context.Background(), &Input{Profile: expectedProfile()})
	require.NoError(t, err)

	assert.Equal(t, "decision-1", out.DecisionID)
	assert.True(t, out.VisaApproved)
	assert.InDelta(t, 87.3, out.ApprovalProbability, 1e-9)
	assert.Equal(t, visa.StatusHigh, out.Status)
	assert.Equal(t, 90, out.ProfileStrengthScore)
	classifier.AssertExpectations(t)
}

func TestHandler_Execute_GateSkipsClassifier(t *testing.T) {
	classifier := &MockClassifier{}
	h := newTestHandler(t, classifier)

	p := expectedProfile()
	p.Age = 17
	out, err := h.Execute(context.Background(), &Input{Profile: p})
	require.NoError(t, err)

	assert.False(t, out.VisaApproved)
	assert.Equal(t, []string{visa.ReasonUnderage}, out.RejectionReasons)
	classifier.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
}

func TestHandler_Execute_ClassifierUnavailable(t *testing.T) {
	classifier := &MockClassifier{}
	classifier.On("Predict", mock.Anything, mock.Anything).
		Return(visa.Prediction{}, fmt.Errorf("connection refused")).Once()

	h := newTestHandler(t, classifier)
	_, err := h.Execute(context.Background(), &Input{Profile: expectedProfile()})
	require.Error(t, err)

	assert.True(t, errors.HasCode(err, errors.ErrCodeClassifierUnavailable))
	bpmn := errors.ConvertToBPMNError(errors.AsStandardError(err))
	assert.Equal(t, 3, bpmn.Retries)
}

// ==========================
// Output Tests
// ==========================

func TestOutput_MatchesOutputSchema(t *testing.T) {
	classifier := &MockClassifier{}
	classifier.On("Predict", mock.Anything, mock.Anything).
		Return(visa.Prediction{Class: 0, Probability: 0.4, Source: "stub"}, nil)

	h := newTestHandler(t, classifier)
	out, err := h.Execute(context.Background(), &Input{Profile: expectedProfile()})
	require.NoError(t, err)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &vars))

	result := validation.ValidateInput(vars, GetOutputSchema())
	assert.True(t, result.Valid, "%v", result.GetErrorMessages())
	assert.Equal(t, "decision-1", vars["decisionId"])
	assert.Contains(t, vars, "alternate_country_suggestions")
}

func TestGetInputSchema_DestinationsFollowTable(t *testing.T) {
	table := visa.NewDifficultyTable(visa.Destination{Country: "Japan", Difficulty: 0.7})
	schema := GetInputSchema(table)
	assert.Equal(t, []string{"Japan"}, schema.Properties["destination_country"].Enum)
	assert.ElementsMatch(t, ProfileFields, schema.Required)
}

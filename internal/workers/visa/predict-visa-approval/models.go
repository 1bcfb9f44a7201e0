package predictvisaapproval

import "visa-predictor/internal/visa"

// Input carries the applicant profile read from the process variables.
type Input struct {
	Profile visa.Profile
}

// Output is the decision plus an identifier the process can correlate on.
type Output struct {
	*visa.Result
	DecisionID string `json:"decisionId"`
}

package models

// Verdict is the outcome class of a honeypot simulation.
type Verdict string

const (
	VerdictSafe       Verdict = "SAFE"
	VerdictHoneypot   Verdict = "HONEYPOT"
	VerdictLocked     Verdict = "LOCKED"
	VerdictSuspicious Verdict = "SUSPICIOUS"
	VerdictUnknown    Verdict = "UNKNOWN"
)

// VerdictConfidence labels how much the step outcomes support the verdict.
type VerdictConfidence string

const (
	ConfidenceNone     VerdictConfidence = "none"
	ConfidenceLow      VerdictConfidence = "low"
	ConfidenceMedium   VerdictConfidence = "medium"
	ConfidenceHigh     VerdictConfidence = "high"
	ConfidenceVeryHigh VerdictConfidence = "very_high"
)

// StepOutcome distinguishes a genuinely failed step from one that could not
// be attempted. Skipped is not a failure: a skipped sell must never push the
// verdict towards HONEYPOT.
type StepOutcome string

const (
	StepSucceeded StepOutcome = "succeeded"
	StepFailed    StepOutcome = "failed"
	StepSkipped   StepOutcome = "skipped"
)

// StepResult is the outcome of one simulated transaction step.
type StepResult struct {
	Outcome     StepOutcome `json:"outcome"`
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	GasEstimate *uint64     `json:"gas_estimate,omitempty"`
}

// SkippedStep builds the result for a step that could not be attempted.
func SkippedStep(message string) StepResult {
	return StepResult{Outcome: StepSkipped, Success: true, Message: message}
}

// LiquidityHint is the optional USD liquidity passed into the simulator; it
// widens the major-pool classification, nothing else.
type LiquidityHint struct {
	USD *float64
}

// SimulationResult is the immutable outcome of a full honeypot simulation.
type SimulationResult struct {
	Verdict    Verdict            `json:"verdict"`
	Confidence VerdictConfidence  `json:"confidence"`
	Buy        StepResult         `json:"buy_simulation"`
	Sell       StepResult         `json:"sell_simulation"`
	Transfer   *StepResult        `json:"transfer_simulation,omitempty"`
	Holder     string             `json:"holder,omitempty"`
	Warnings   []string           `json:"warnings"`
	Features   map[string]float64 `json:"features,omitempty"`
	Error      string             `json:"error,omitempty"`
}

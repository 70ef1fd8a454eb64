package models

// Outcome classifies a response by its status code.
type Outcome int

const (
	OutcomeSuccess Outcome = iota + 1
	OutcomeFailure
)

// ClassifyStatus treats 2xx and 3xx as success and everything else as failure.
// Only the first character is inspected.
func ClassifyStatus(statusCode string) Outcome {
	if statusCode != "" && (statusCode[0] == '2' || statusCode[0] == '3') {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	}
	return "unknown"
}

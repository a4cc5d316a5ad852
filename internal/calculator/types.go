package calculator

import "unicode/utf8"

// DigitRequest is the JSON body for POST /calculator/sessions/{id}/digit.
type DigitRequest struct {
	Digit string `json:"digit"` // a single character, "0" to "9"
}

func (r DigitRequest) rune() (rune, bool) {
	if utf8.RuneCountInString(r.Digit) != 1 {
		return 0, false
	}
	d, _ := utf8.DecodeRuneInString(r.Digit)
	return d, true
}

// OperatorRequest is the JSON body for POST /calculator/sessions/{id}/operator.
type OperatorRequest struct {
	Operator string `json:"operator"` // "add", "subtract", "multiply", "divide" or a symbol
}

// LoadRequest is the JSON body for POST /calculator/sessions/{id}/load.
type LoadRequest struct {
	CalculationID string `json:"calculation_id"`
}

// SessionResponse is the JSON response for every session endpoint.
type SessionResponse struct {
	ID         string `json:"id"`
	Expression string `json:"expression"`
	Preview    string `json:"preview"`
	Error      string `json:"error,omitempty"` // failure kind after a rejected apply
	Applied    *bool  `json:"applied,omitempty"`
}

func newSessionResponse(id string, st State) SessionResponse {
	return SessionResponse{
		ID:         id,
		Expression: st.Expression,
		Preview:    st.Preview,
		Error:      ErrorKind(st.Err),
	}
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

package domain

// Respondent is a fabricated shopper.
type Respondent struct {
	RespondentID  string // "<region>_<i>"
	Region        string
	Age           int
	IncomeBracket string
	Loyalty       bool
}

package domain

import (
	"strings"
	"time"
)

// TeamValueNone is persisted when the team/value column of a row is blank.
// Blank is never an error for that column.
const TeamValueNone = "NINGUNO"

// Participant is one volunteer-program participant. Records are constructed
// transiently during ingestion, persisted once per successful batch, and
// never mutated afterwards. ID and CreatedAt are assigned by the store.
type Participant struct {
	ID               int64     `json:"id"`
	GivenNames       string    `json:"givenNames"`
	Surnames         string    `json:"surnames"`
	DNI              string    `json:"dni"`
	Program          string    `json:"program"`
	Role             string    `json:"role"`
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	Hours            int       `json:"hours"`
	TeamValue        string    `json:"teamValue"`
	VerificationCode string    `json:"verificationCode"`
	CreatedAt        time.Time `json:"createdAt"`
}

// FullName returns the upper-cased concatenation of given names and surnames
// as it appears on the certificate.
func (p Participant) FullName() string {
	return strings.ToUpper(strings.TrimSpace(p.GivenNames + " " + p.Surnames))
}

// BatchResult is the outcome of processing one uploaded workbook. The batch
// is strictly all-or-nothing: Errors is non-empty exactly when SavedIDs is
// empty.
type BatchResult struct {
	Errors   []string `json:"errors"`
	SavedIDs []int64  `json:"savedIds"`
}

// OK reports whether the batch was committed.
func (r BatchResult) OK() bool {
	return len(r.Errors) == 0
}

// Rejected builds a failed result carrying the accumulated error messages.
func Rejected(errors ...string) BatchResult {
	return BatchResult{Errors: errors, SavedIDs: []int64{}}
}

package models

import "time"

// Decision is an evaluator's verdict for one submission.
type Decision string

const (
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
)

// Valid reports whether d is one of the two known decisions.
func (d Decision) Valid() bool {
	return d == DecisionAccepted || d == DecisionRejected
}

// Submission is one applicant's application row. Optional text columns are
// represented as empty strings; Status is empty until a decision is made.
// ProfilePicture and ZipFile hold artifact references (object keys, possibly
// in one of the legacy disguises the artifact resolver understands).
//
// The JSON tags match the column names emitted by the change-feed trigger's
// row_to_json payload.
type Submission struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"user_id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Location       string    `json:"location"`
	Hobby          string    `json:"hobby"`
	ProfilePicture string    `json:"profile_picture"`
	ZipFile        string    `json:"zip_file"`
	Feedback       string    `json:"feedback"`
	Status         Decision  `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

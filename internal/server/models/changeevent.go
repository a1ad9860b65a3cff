package models

// ChangeOp tags the kind of a table change event. Values match the
// TG_OP strings emitted by the Postgres trigger.
type ChangeOp string

const (
	OpInsert ChangeOp = "INSERT"
	OpUpdate ChangeOp = "UPDATE"
	OpDelete ChangeOp = "DELETE"
)

// ChangeEvent is one insert/update/delete notification for a submission
// row, delivered over a live subscription in commit order. Row is set for
// OpInsert and OpUpdate; ID is always set.
type ChangeEvent struct {
	Op  ChangeOp    `json:"op"`
	Row *Submission `json:"row,omitempty"`
	ID  int64       `json:"id"`
}

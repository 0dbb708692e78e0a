package models

import "time"

// ProgramProgress records a learner's standing in one program.
type ProgramProgress struct {
	ID            int              `db:"id" json:"Id"`
	ProgramID     int              `db:"program_id" json:"ProgramId"`
	Status        CompletionStatus `db:"status" json:"Status"`
	DateCompleted *time.Time       `db:"date_completed" json:"DateCompleted,omitempty"`
	TrackerID     *int             `db:"tracker_id" json:"TrackerId,omitempty"`
}

// ProgramTracker is the per-learner progress ledger. Exactly one tracker
// exists per learner; repository lookups key on UserID rather than the
// tracker's own id.
type ProgramTracker struct {
	ID       int                `db:"id" json:"Id"`
	UserID   int                `db:"user_id" json:"UserId"`
	Programs []ProgramProgress  `db:"-" json:"Programs"`
	Courses  []CourseCompletion `db:"-" json:"Courses"`
}

package models

import "time"

// CourseType classifies how a course is delivered.
type CourseType string

const (
	CourseLecture          CourseType = "LECTURE"
	CourseLaboratory       CourseType = "LABORATORY"
	CourseIndependentStudy CourseType = "INDEPENDENT_STUDY"
)

// CompletionStatus is shared by course completions and program progress.
type CompletionStatus string

const (
	StatusNotStarted CompletionStatus = "NOT_STARTED"
	StatusInProgress CompletionStatus = "IN_PROGRESS"
	StatusCompleted  CompletionStatus = "COMPLETED"
)

// Course is a unit of instruction. InstructorID is a plain user id, not a
// referentially enforced foreign key; RemovedInstructorID is substituted
// when the instructor is hard-deleted.
type Course struct {
	ID              int        `db:"id" json:"Id"`
	Title           string     `db:"title" json:"Title"`
	Code            string     `db:"code" json:"Code"`
	Description     string     `db:"description" json:"Description"`
	InstructorID    int        `db:"instructor_id" json:"InstructorId"`
	DurationInHours int        `db:"duration_in_hours" json:"DurationInHours"`
	Year            int        `db:"year" json:"Year"`
	Term            int        `db:"term" json:"Term"`
	Type            CourseType `db:"type" json:"Type"`
	Units           int        `db:"units" json:"Units"`
	ProgramID       *int       `db:"program_id" json:"ProgramId,omitempty"`
}

// CourseCompletion records a learner's standing in one course. The
// instructor id is denormalized from the course at enrollment time.
type CourseCompletion struct {
	ID            int              `db:"id" json:"Id"`
	UserID        int              `db:"user_id" json:"UserId"`
	CourseID      int              `db:"course_id" json:"CourseId"`
	InstructorID  int              `db:"instructor_id" json:"InstructorId"`
	Status        CompletionStatus `db:"status" json:"Status"`
	DateCompleted *time.Time       `db:"date_completed" json:"DateCompleted,omitempty"`
	Grade         *float64         `db:"grade" json:"Grade,omitempty"`
	TrackerID     *int             `db:"tracker_id" json:"TrackerId,omitempty"`
}

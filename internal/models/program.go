package models

// ProgramStatus represents the lifecycle state of a program.
type ProgramStatus string

const (
	ProgramActive       ProgramStatus = "ACTIVE"
	ProgramSuspended    ProgramStatus = "SUSPENDED"
	ProgramDiscontinued ProgramStatus = "DISCONTINUED"
)

// Program is a named curriculum composed of courses. Code and title are
// unique across active and inactive programs alike.
type Program struct {
	ID          int           `db:"id" json:"Id"`
	Title       string        `db:"title" json:"Title"`
	Code        string        `db:"code" json:"Code"`
	Description string        `db:"description" json:"Description"`
	Courses     []Course      `db:"-" json:"Courses"`
	Status      ProgramStatus `db:"status" json:"Status"`
}

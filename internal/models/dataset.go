package models

// Dataset is the single JSON document persisted by the file backend. Every
// read deserializes the whole document and every write replaces it.
type Dataset struct {
	Users             []User             `json:"Users"`
	Programs          []Program          `json:"Programs"`
	Courses           []Course           `json:"Courses"`
	CourseCompletions []CourseCompletion `json:"CourseCompletions"`
	ProgramTrackers   []ProgramTracker   `json:"ProgramTrackers"`
	Settings          []Setting          `json:"Settings"`
}

// NewDataset returns an empty document with non-nil collections so the
// serialized form always carries every array.
func NewDataset() *Dataset {
	return &Dataset{
		Users:             []User{},
		Programs:          []Program{},
		Courses:           []Course{},
		CourseCompletions: []CourseCompletion{},
		ProgramTrackers:   []ProgramTracker{},
		Settings:          []Setting{},
	}
}

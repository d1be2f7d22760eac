package model

// GradeEntry is the application-facing record shape: flat scalar fields plus
// a nested skills map, one rating per configured skill. The optional numeric
// fields are pointers so "not recorded" stays distinct from a recorded zero.
type GradeEntry struct {
	Timestamp      string            `json:"timestamp,omitempty"`
	TeacherEmail   string            `json:"teacherEmail"`
	TeacherName    string            `json:"teacherName"`
	Course         string            `json:"course"`
	Student        string            `json:"student"`
	PercentageMark *float64          `json:"percentageMark,omitempty"`
	ClassesMissed  *int              `json:"classesMissed,omitempty"`
	TimesLate      *int              `json:"timesLate,omitempty"`
	Skills         map[string]string `json:"skills"`
	Comment        string            `json:"comment"`
	LastModified   string            `json:"lastModified,omitempty"`
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// UpsertResult reports whether a submission created a new row or replaced
// the existing one for its (student, course) pair.
type UpsertResult struct {
	Action  string `json:"action"`
	Student string `json:"student"`
	Course  string `json:"course"`
}

type SummaryReport struct {
	TotalEntries         int            `json:"totalEntries"`
	EntriesByTeacher     map[string]int `json:"entriesByTeacher"`
	EntriesByMark        map[string]int `json:"entriesByMark"`
	AverageCommentLength int            `json:"averageCommentLength"`
}

package model

import "time"

// SubmitRequest is the inbound grade submission, pre-validation. Grade is
// required by the validator but never persisted under that name; storage
// carries only the percentage mark.
type SubmitRequest struct {
	TeacherEmail   string            `json:"teacherEmail"`
	TeacherName    string            `json:"teacherName"`
	Course         string            `json:"course"`
	Student        string            `json:"student"`
	Grade          string            `json:"grade"`
	PercentageMark *float64          `json:"percentageMark"`
	ClassesMissed  *int              `json:"classesMissed"`
	TimesLate      *int              `json:"timesLate"`
	Skills         map[string]string `json:"skills"`
	Comment        string            `json:"comment"`
	Timestamp      string            `json:"timestamp"`
}

// Entry converts the submission into the record shape handed to the
// repository.
func (r SubmitRequest) Entry() GradeEntry {
	return GradeEntry{
		Timestamp:      r.Timestamp,
		TeacherEmail:   r.TeacherEmail,
		TeacherName:    r.TeacherName,
		Course:         r.Course,
		Student:        r.Student,
		PercentageMark: r.PercentageMark,
		ClassesMissed:  r.ClassesMissed,
		TimesLate:      r.TimesLate,
		Skills:         r.Skills,
		Comment:        r.Comment,
	}
}

// ArchiveJob carries a rendered CSV snapshot to the archive worker. The
// snapshot is rendered at enqueue time so the worker never touches the
// tabular store.
type ArchiveJob struct {
	Key         string    `json:"key"`
	CSV         string    `json:"csv"`
	RequestedAt time.Time `json:"requested_at"`
}

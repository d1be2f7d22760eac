package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/model"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/schema"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/pkg/errors"
)

// Validator rejects malformed submissions before they reach storage. Every
// violation is reported, not just the first.
type Validator struct {
	skills           []string
	maxCommentLength int
}

func New(sch *schema.Schema, maxCommentLength int) *Validator {
	if maxCommentLength <= 0 {
		maxCommentLength = 500
	}
	return &Validator{
		skills:           sch.Skills(),
		maxCommentLength: maxCommentLength,
	}
}

// Validate returns every violation found in the submission; an empty result
// means the submission is valid. The grade field is required here even
// though it is never persisted; storage keeps the percentage mark instead.
func (v *Validator) Validate(req model.SubmitRequest) errors.ValidationErrors {
	var violations errors.ValidationErrors

	if strings.TrimSpace(req.TeacherEmail) == "" {
		violations = append(violations, errors.ValidationError{
			Field:   "teacherEmail",
			Message: "teacher email is required",
		})
	}
	if strings.TrimSpace(req.Student) == "" {
		violations = append(violations, errors.ValidationError{
			Field:   "student",
			Message: "student is required",
		})
	}
	if strings.TrimSpace(req.Grade) == "" {
		violations = append(violations, errors.ValidationError{
			Field:   "grade",
			Message: "grade is required",
		})
	}

	if req.Skills == nil {
		violations = append(violations, errors.ValidationError{
			Field:   "skills",
			Message: "skill ratings are required",
		})
	}
	for _, skill := range v.skills {
		if strings.TrimSpace(req.Skills[skill]) == "" {
			violations = append(violations, errors.ValidationError{
				Field:   "skills." + skill,
				Message: fmt.Sprintf("missing rating for skill '%s'", skill),
			})
		}
	}

	if strings.TrimSpace(req.Comment) == "" {
		violations = append(violations, errors.ValidationError{
			Field:   "comment",
			Message: "comment is required",
		})
	} else if utf8.RuneCountInString(req.Comment) > v.maxCommentLength {
		violations = append(violations, errors.ValidationError{
			Field:   "comment",
			Message: fmt.Sprintf("comment must be at most %d characters", v.maxCommentLength),
		})
	}

	return violations
}

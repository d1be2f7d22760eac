package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/model"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/schema"
)

func newTestValidator() *Validator {
	return New(schema.New(nil), 500)
}

func validSubmission() model.SubmitRequest {
	skills := make(map[string]string)
	for _, skill := range schema.DefaultSkills {
		skills[skill] = "G"
	}
	return model.SubmitRequest{
		TeacherEmail: "jsmith@school.ca",
		TeacherName:  "J. Smith",
		Course:       "MPM1D",
		Student:      "Avery Park",
		Grade:        "B+",
		Skills:       skills,
		Comment:      "Doing well.",
	}
}

func TestValidSubmissionPasses(t *testing.T) {
	v := newTestValidator()
	assert.Empty(t, v.Validate(validSubmission()))
}

func TestEveryViolationIsReported(t *testing.T) {
	v := newTestValidator()

	req := validSubmission()
	req.TeacherEmail = ""
	req.Student = ""
	req.Grade = ""
	delete(req.Skills, "Initiative")
	delete(req.Skills, "Collaboration")

	violations := v.Validate(req)
	require.Len(t, violations, 5)

	messages := strings.Join(violations.Messages(), "; ")
	assert.Contains(t, messages, "teacher email is required")
	assert.Contains(t, messages, "student is required")
	assert.Contains(t, messages, "grade is required")
	assert.Contains(t, messages, "missing rating for skill 'Initiative'")
	assert.Contains(t, messages, "missing rating for skill 'Collaboration'")
}

func TestNilSkillsReportsGeneralAndPerSkillErrors(t *testing.T) {
	v := newTestValidator()

	req := validSubmission()
	req.Skills = nil

	violations := v.Validate(req)
	// One general error plus one per configured skill.
	require.Len(t, violations, 1+len(schema.DefaultSkills))
	assert.Contains(t, violations.Messages(), "skill ratings are required")
}

func TestCommentBoundary(t *testing.T) {
	v := newTestValidator()

	req := validSubmission()
	req.Comment = strings.Repeat("a", 500)
	assert.Empty(t, v.Validate(req))

	req.Comment = strings.Repeat("a", 501)
	violations := v.Validate(req)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, "at most 500 characters")
}

func TestMissingCommentIsPresenceErrorOnly(t *testing.T) {
	v := newTestValidator()

	req := validSubmission()
	req.Comment = ""

	violations := v.Validate(req)
	require.Len(t, violations, 1)
	assert.Equal(t, "comment is required", violations[0].Message)
}

func TestBlankFieldsCountAsMissing(t *testing.T) {
	v := newTestValidator()

	req := validSubmission()
	req.TeacherEmail = "   "
	req.Skills["Initiative"] = "  "

	violations := v.Validate(req)
	require.Len(t, violations, 2)
}

package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-portal/internal/types"
)

func validCV() *types.ParsedCV {
	return &types.ParsedCV{
		PersonalInfo: &types.PersonalInfo{Name: "Ada Lovelace", Email: "ada@example.com"},
		Summary:      "Pioneer of computing.",
		Skills:       []string{"Mathematics"},
		Experience: []types.ExperienceEntry{
			{Company: "Analytical Engines Ltd", Title: "Engineer"},
		},
	}
}

func TestValidateParsedCVValid(t *testing.T) {
	assert.Empty(t, ValidateParsedCV(validCV()))
}

func TestValidateParsedCVNil(t *testing.T) {
	violations := ValidateParsedCV(nil)
	assert.Equal(t, []string{"parsed CV is missing"}, violations)
}

func TestValidateParsedCVMissingName(t *testing.T) {
	cv := validCV()
	cv.PersonalInfo.Name = ""

	violations := ValidateParsedCV(cv)
	assert.NotEmpty(t, violations)
}

func TestValidateParsedCVMissingPersonalInfo(t *testing.T) {
	cv := validCV()
	cv.PersonalInfo = nil

	violations := ValidateParsedCV(cv)
	assert.NotEmpty(t, violations)
}

func TestValidateParsedCVExperienceWithoutTitle(t *testing.T) {
	cv := validCV()
	cv.Experience = []types.ExperienceEntry{{Company: "Somewhere"}}

	violations := ValidateParsedCV(cv)
	assert.NotEmpty(t, violations)
}

package members

import (
	"github.com/dalemusser/clubhub/internal/app/features/uploadcsv/csvutil"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// memberInput is the create/update request body. Field names match the
// CSV columns.
type memberInput struct {
	Name       string `json:"name" validate:"required"`
	StudentNo  string `json:"studentNo" validate:"required"`
	Department string `json:"department" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Year       string `json:"year" validate:"required"`
	Gender     string `json:"gender"`
}

func (in memberInput) model() (models.Member, error) {
	gender, ok := csvutil.NormalizeGender(in.Gender)
	if !ok {
		return models.Member{}, &inputval.Error{Message: "gender must be Male, Female or Others"}
	}
	m := models.Member{
		Name:       htmlsanitize.PlainText(in.Name),
		StudentNo:  htmlsanitize.PlainText(in.StudentNo),
		Department: htmlsanitize.PlainText(in.Department),
		Email:      in.Email,
		Year:       htmlsanitize.PlainText(in.Year),
		Gender:     gender,
	}
	// Required fields are checked again after markup is stripped.
	for _, f := range []struct{ name, value string }{
		{"name", m.Name},
		{"studentNo", m.StudentNo},
		{"department", m.Department},
		{"year", m.Year},
	} {
		if f.value == "" {
			return models.Member{}, &inputval.Error{Message: f.name + " is required"}
		}
	}
	return m, nil
}

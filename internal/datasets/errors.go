package datasets

import (
	"errors"

	apperrors "college-advisor/internal/common/errors"
	"college-advisor/internal/models"
)

// StandardError maps a table loading failure to the application error taxonomy.
func StandardError(exam models.Exam, path string, err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrDatasetInvalid):
		return apperrors.NewDatasetInvalidError(path, err.Error())
	case errors.Is(err, ErrRankTableUnavailable):
		return apperrors.NewRankTableUnavailableError(string(exam), err)
	default:
		return apperrors.NewSeatTableUnavailableError(string(exam), err)
	}
}

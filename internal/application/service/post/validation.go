package post_service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"yatube-post-service/internal/application/validation"
	"yatube-post-service/internal/custom_errors"
	group_repository "yatube-post-service/internal/domain/ports/output/group"
)

const invalidGroupMessage = "Select a valid choice. That choice is not one of the available choices."

type postInput struct {
	Text string `validate:"required"`
}

// validatePostInput applies the rule set shared by create and update and
// returns the text as it must be stored.
func (s *Service) validatePostInput(ctx context.Context, groups group_repository.Repository, text string, groupID *int64) (string, error) {
	input := postInput{Text: strings.TrimSpace(text)}
	verr := custom_errors.NewValidationError(custom_errors.ErrPostValidation)

	if err := s.validate.Struct(&input); err != nil {
		for field, msg := range validation.FieldMessages(err) {
			verr.Add(field, msg)
		}
	}

	if groupID != nil {
		if _, err := groups.GetByID(ctx, *groupID); err != nil {
			if !errors.Is(err, custom_errors.ErrGroupNotFound) {
				s.log.Error("Failed to check group", slog.Int64("group_id", *groupID), slog.String("error", err.Error()))
				return "", err
			}
			verr.Add("group", invalidGroupMessage)
		}
	}

	if verr.HasErrors() {
		s.log.Debug("Post input rejected", slog.String("error", verr.Error()))
		return "", verr
	}
	return input.Text, nil
}

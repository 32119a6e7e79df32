package store

import (
	"context"
	"fmt"
)

type deleteStep struct {
	table   string
	query   string
	args    []interface{}
	counter *int64
}

// runDeletion executes the steps in order inside one transaction. Checks
// always come before their submissions so the foreign key holds at every
// statement.
func (s *BaseStore) runDeletion(ctx context.Context, steps []deleteStep) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin deletion: %w", err)
	}
	defer tx.Rollback()

	for _, step := range steps {
		query, args, err := s.in(step.query, step.args...)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to delete from %s: %w", step.table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to count deleted %s rows: %w", step.table, err)
		}
		*step.counter += n
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deletion: %w", err)
	}
	return nil
}

// DeleteUserData removes the listed users' rows from one checkmark. With
// ErasureOwner only rows the users own go; ErasureAllRoles also removes
// feedbacks they graded and overrides they granted.
func (s *BaseStore) DeleteUserData(ctx context.Context, checkmarkID int64, userIDs []int64, scope ErasureScope) (*DeletionResult, error) {
	result := &DeletionResult{}
	if len(userIDs) == 0 {
		return result, nil
	}

	feedbackQuery := `DELETE FROM checkmark_feedbacks WHERE checkmarkid = ? AND userid IN (?)`
	feedbackArgs := []interface{}{checkmarkID, userIDs}
	overrideQuery := `DELETE FROM checkmark_overrides WHERE checkmarkid = ? AND userid IN (?)`
	overrideArgs := []interface{}{checkmarkID, userIDs}
	if scope == ErasureAllRoles {
		feedbackQuery = `DELETE FROM checkmark_feedbacks WHERE checkmarkid = ? AND (userid IN (?) OR graderid IN (?))`
		feedbackArgs = append(feedbackArgs, userIDs)
		overrideQuery = `DELETE FROM checkmark_overrides WHERE checkmarkid = ? AND (userid IN (?) OR modifierid IN (?))`
		overrideArgs = append(overrideArgs, userIDs)
	}

	steps := []deleteStep{
		{
			table: "checkmark_checks",
			query: `
				DELETE FROM checkmark_checks
				WHERE submissionid IN (
					SELECT id FROM checkmark_submissions
					WHERE checkmarkid = ? AND userid IN (?)
				)`,
			args:    []interface{}{checkmarkID, userIDs},
			counter: &result.Checks,
		},
		{
			table:   "checkmark_submissions",
			query:   `DELETE FROM checkmark_submissions WHERE checkmarkid = ? AND userid IN (?)`,
			args:    []interface{}{checkmarkID, userIDs},
			counter: &result.Submissions,
		},
		{
			table:   "checkmark_feedbacks",
			query:   feedbackQuery,
			args:    feedbackArgs,
			counter: &result.Feedbacks,
		},
		{
			table:   "checkmark_overrides",
			query:   overrideQuery,
			args:    overrideArgs,
			counter: &result.Overrides,
		},
	}

	if err := s.runDeletion(ctx, steps); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteAllData purges every user row of a checkmark.
func (s *BaseStore) DeleteAllData(ctx context.Context, checkmarkID int64) (*DeletionResult, error) {
	result := &DeletionResult{}
	steps := []deleteStep{
		{
			table: "checkmark_checks",
			query: `
				DELETE FROM checkmark_checks
				WHERE submissionid IN (
					SELECT id FROM checkmark_submissions WHERE checkmarkid = ?
				)`,
			args:    []interface{}{checkmarkID},
			counter: &result.Checks,
		},
		{
			table:   "checkmark_submissions",
			query:   `DELETE FROM checkmark_submissions WHERE checkmarkid = ?`,
			args:    []interface{}{checkmarkID},
			counter: &result.Submissions,
		},
		{
			table:   "checkmark_feedbacks",
			query:   `DELETE FROM checkmark_feedbacks WHERE checkmarkid = ?`,
			args:    []interface{}{checkmarkID},
			counter: &result.Feedbacks,
		},
		{
			table:   "checkmark_overrides",
			query:   `DELETE FROM checkmark_overrides WHERE checkmarkid = ?`,
			args:    []interface{}{checkmarkID},
			counter: &result.Overrides,
		},
	}

	if err := s.runDeletion(ctx, steps); err != nil {
		return nil, err
	}
	return result, nil
}

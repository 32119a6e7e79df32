package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shrimpsizemoose/checkmark/internal/models"
)

func insertReturningID(ctx context.Context, e sqlx.ExtContext, query string, arg interface{}) (int64, error) {
	rows, err := sqlx.NamedQueryContext(ctx, e, query+" RETURNING id", arg)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var id int64
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
	}
	return id, rows.Err()
}

func (s *BaseStore) moduleID(ctx context.Context, q sqlx.QueryerContext) (int64, error) {
	var id int64
	query := s.Converter(`SELECT id FROM modules WHERE name = ?`)
	if err := sqlx.GetContext(ctx, q, &id, query, models.ModuleName); err != nil {
		return 0, fmt.Errorf("failed to find module %s: %w", models.ModuleName, err)
	}
	return id, nil
}

// CreateCheckmark stores a new activity and registers its course module and
// module-level context, the way the host does when an activity is added.
func (s *BaseStore) CreateCheckmark(ctx context.Context, checkmark *models.Checkmark) (*models.ActivityContext, error) {
	if err := checkmark.Validate(); err != nil {
		return nil, fmt.Errorf("invalid checkmark: %w", err)
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin checkmark creation: %w", err)
	}
	defer tx.Rollback()

	id, err := insertReturningID(ctx, tx, `
		INSERT INTO checkmark (course, name, grade, trackattendance, presentationgrading,
			presentationgrade, completionsubmit, timeavailable, timedue, cutoffdate)
		VALUES (:course, :name, :grade, :trackattendance, :presentationgrading,
			:presentationgrade, :completionsubmit, :timeavailable, :timedue, :cutoffdate)
	`, checkmark)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkmark: %w", err)
	}
	checkmark.ID = id

	moduleID, err := s.moduleID(ctx, tx)
	if err != nil {
		return nil, err
	}

	cmID, err := insertReturningID(ctx, tx, `
		INSERT INTO course_modules (course, module, instance)
		VALUES (:course, :module, :instance)
	`, map[string]interface{}{
		"course":   checkmark.Course,
		"module":   moduleID,
		"instance": checkmark.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create course module: %w", err)
	}

	contextID, err := insertReturningID(ctx, tx, `
		INSERT INTO context (contextlevel, instanceid)
		VALUES (:contextlevel, :instanceid)
	`, map[string]interface{}{
		"contextlevel": models.ContextLevelModule,
		"instanceid":   cmID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create module context: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit checkmark creation: %w", err)
	}

	return &models.ActivityContext{
		ContextID:      contextID,
		CourseModuleID: cmID,
		Checkmark:      *checkmark,
	}, nil
}

// CreateContext registers a context that is not backed by a checkmark, such
// as a course or user context.
func (s *BaseStore) CreateContext(ctx context.Context, c *models.Context) error {
	id, err := insertReturningID(ctx, s.DB, `
		INSERT INTO context (contextlevel, instanceid)
		VALUES (:contextlevel, :instanceid)
	`, c)
	if err != nil {
		return fmt.Errorf("failed to create context: %w", err)
	}
	c.ID = id
	return nil
}

func (s *BaseStore) CreateExample(ctx context.Context, example *models.Example) error {
	if err := example.Validate(); err != nil {
		return fmt.Errorf("invalid example: %w", err)
	}
	id, err := insertReturningID(ctx, s.DB, `
		INSERT INTO checkmark_examples (checkmarkid, name, grade)
		VALUES (:checkmarkid, :name, :grade)
	`, example)
	if err != nil {
		return fmt.Errorf("failed to create example: %w", err)
	}
	example.ID = id
	return nil
}

func (s *BaseStore) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	if err := submission.Validate(); err != nil {
		return fmt.Errorf("invalid submission: %w", err)
	}
	id, err := insertReturningID(ctx, s.DB, `
		INSERT INTO checkmark_submissions (checkmarkid, userid, timecreated, timemodified)
		VALUES (:checkmarkid, :userid, :timecreated, :timemodified)
	`, submission)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	submission.ID = id
	return nil
}

func (s *BaseStore) CreateCheck(ctx context.Context, check *models.Check) error {
	if err := check.Validate(); err != nil {
		return fmt.Errorf("invalid check: %w", err)
	}
	id, err := insertReturningID(ctx, s.DB, `
		INSERT INTO checkmark_checks (exampleid, submissionid, state)
		VALUES (:exampleid, :submissionid, :state)
	`, check)
	if err != nil {
		return fmt.Errorf("failed to create check: %w", err)
	}
	check.ID = id
	return nil
}

func (s *BaseStore) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	if err := feedback.Validate(); err != nil {
		return fmt.Errorf("invalid feedback: %w", err)
	}
	id, err := insertReturningID(ctx, s.DB, `
		INSERT INTO checkmark_feedbacks (checkmarkid, userid, graderid, grade, feedback, format,
			attendance, presentationgrade, presentationfeedback, presentationformat,
			timecreated, timemodified, mailed)
		VALUES (:checkmarkid, :userid, :graderid, :grade, :feedback, :format,
			:attendance, :presentationgrade, :presentationfeedback, :presentationformat,
			:timecreated, :timemodified, :mailed)
	`, feedback)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	feedback.ID = id
	return nil
}

func (s *BaseStore) CreateOverride(ctx context.Context, override *models.Override) error {
	if err := override.Validate(); err != nil {
		return fmt.Errorf("invalid override: %w", err)
	}
	id, err := insertReturningID(ctx, s.DB, `
		INSERT INTO checkmark_overrides (checkmarkid, userid, modifierid, timeavailable, timedue,
			cutoffdate, timecreated, timemodified)
		VALUES (:checkmarkid, :userid, :modifierid, :timeavailable, :timedue,
			:cutoffdate, :timecreated, :timemodified)
	`, override)
	if err != nil {
		return fmt.Errorf("failed to create override: %w", err)
	}
	override.ID = id
	return nil
}

func (s *BaseStore) GetUserPreference(ctx context.Context, userID int64, name string) (string, bool, error) {
	var value string
	query := s.Converter(`
		SELECT value
		FROM user_preferences
		WHERE userid = ?
		AND name = ?
	`)

	err := s.DB.GetContext(ctx, &value, query, userID, name)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get preference %s: %w", name, err)
	}
	return value, true, nil
}

func (s *BaseStore) SetUserPreference(ctx context.Context, userID int64, name, value string) error {
	_, err := s.DB.NamedExecContext(ctx, `
		INSERT INTO user_preferences (userid, name, value)
		VALUES (:userid, :name, :value)
		ON CONFLICT(userid, name) DO UPDATE SET
		value = excluded.value
	`, models.UserPreference{UserID: userID, Name: name, Value: value})
	if err != nil {
		return fmt.Errorf("failed to set preference %s: %w", name, err)
	}
	return nil
}

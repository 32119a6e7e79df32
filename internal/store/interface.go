package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/checkmark/internal/models"
)

type CheckmarkStore interface {
	Close() error
	ApplyMigrations(dir string) error

	GetContext(ctx context.Context, contextID int64) (*models.Context, error)
	ContextIDsForUser(ctx context.Context, userID int64) ([]int64, error)
	UserIDsInContext(ctx context.Context, contextID int64) ([]int64, error)
	ActivitiesForContexts(ctx context.Context, contextIDs []int64) ([]models.ActivityContext, error)

	GetCheckmark(ctx context.Context, checkmarkID int64) (*models.Checkmark, error)
	GetSubmission(ctx context.Context, checkmarkID, userID int64) (*models.Submission, error)
	ListExampleChecks(ctx context.Context, submissionID int64) ([]models.ExampleCheck, error)
	GetFeedback(ctx context.Context, checkmarkID, userID int64) (*models.Feedback, error)
	GetOverride(ctx context.Context, checkmarkID, userID int64) (*models.Override, error)
	OverriddenDates(ctx context.Context, checkmarkID, userID int64) (*models.OverriddenDates, error)

	DeleteUserData(ctx context.Context, checkmarkID int64, userIDs []int64, scope ErasureScope) (*DeletionResult, error)
	DeleteAllData(ctx context.Context, checkmarkID int64) (*DeletionResult, error)

	CreateCheckmark(ctx context.Context, checkmark *models.Checkmark) (*models.ActivityContext, error)
	CreateExample(ctx context.Context, example *models.Example) error
	CreateContext(ctx context.Context, c *models.Context) error
	CreateSubmission(ctx context.Context, submission *models.Submission) error
	CreateCheck(ctx context.Context, check *models.Check) error
	CreateFeedback(ctx context.Context, feedback *models.Feedback) error
	CreateOverride(ctx context.Context, override *models.Override) error

	GetUserPreference(ctx context.Context, userID int64, name string) (string, bool, error)
	SetUserPreference(ctx context.Context, userID int64, name, value string) error
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory in file name order,
// translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		names = append(names, file.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		logger.Debug.Printf("Applying migration: %s", name)
		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}

	return nil
}

// in expands slice arguments with sqlx.In and converts the placeholders to
// the store dialect.
func (s *BaseStore) in(query string, args ...interface{}) (string, []interface{}, error) {
	expanded, params, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, fmt.Errorf("failed to expand query arguments: %w", err)
	}
	return s.Converter(expanded), params, nil
}

func (s *BaseStore) GetContext(ctx context.Context, contextID int64) (*models.Context, error) {
	var c models.Context
	query := s.Converter(`
		SELECT id, contextlevel, instanceid
		FROM context
		WHERE id = ?
	`)

	err := s.DB.GetContext(ctx, &c, query, contextID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get context %d: %w", contextID, err)
	}
	return &c, nil
}

// ContextIDsForUser returns each checkmark context where the user appears in
// any role column, once.
func (s *BaseStore) ContextIDsForUser(ctx context.Context, userID int64) ([]int64, error) {
	query := s.Converter(`
		SELECT DISTINCT ctx.id
		FROM context ctx
		JOIN course_modules cm ON cm.id = ctx.instanceid AND ctx.contextlevel = ?
		JOIN modules m ON m.id = cm.module AND m.name = ?
		JOIN checkmark c ON c.id = cm.instance
		LEFT JOIN checkmark_submissions s ON s.checkmarkid = c.id
		LEFT JOIN checkmark_feedbacks f ON f.checkmarkid = c.id
		LEFT JOIN checkmark_overrides o ON o.checkmarkid = c.id
		WHERE s.userid = ?
		OR f.userid = ?
		OR f.graderid = ?
		OR o.userid = ?
		OR o.modifierid = ?
	`)

	var ids []int64
	err := s.DB.SelectContext(ctx, &ids, query,
		models.ContextLevelModule,
		models.ModuleName,
		userID, userID, userID, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contexts for user %d: %w", userID, err)
	}
	return ids, nil
}

const contextScope = `
		JOIN checkmark c ON c.id = t.checkmarkid
		JOIN course_modules cm ON cm.instance = c.id
		JOIN modules m ON m.id = cm.module AND m.name = ?
		JOIN context ctx ON ctx.instanceid = cm.id AND ctx.contextlevel = ?
		WHERE ctx.id = ?`

// UserIDsInContext gathers users from every role column of the three
// dependent tables. The result may hold duplicates.
func (s *BaseStore) UserIDsInContext(ctx context.Context, contextID int64) ([]int64, error) {
	queries := []struct {
		table   string
		columns []string
	}{
		{"checkmark_submissions", []string{"userid"}},
		{"checkmark_feedbacks", []string{"userid", "graderid"}},
		{"checkmark_overrides", []string{"userid", "modifierid"}},
	}

	var users []int64
	for _, q := range queries {
		for _, column := range q.columns {
			query := s.Converter(fmt.Sprintf(
				"SELECT t.%s FROM %s t %s",
				column, q.table, contextScope,
			))

			var ids []int64
			err := s.DB.SelectContext(ctx, &ids, query,
				models.ModuleName,
				models.ContextLevelModule,
				contextID,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch %s.%s users in context %d: %w", q.table, column, contextID, err)
			}
			for _, id := range ids {
				if id > 0 {
					users = append(users, id)
				}
			}
		}
	}
	return users, nil
}

func (s *BaseStore) ActivitiesForContexts(ctx context.Context, contextIDs []int64) ([]models.ActivityContext, error) {
	if len(contextIDs) == 0 {
		return nil, nil
	}

	query, args, err := s.in(`
		SELECT
			ctx.id AS contextid,
			cm.id AS cmid,
			c.id,
			c.course,
			c.name,
			c.grade,
			c.trackattendance,
			c.presentationgrading,
			c.presentationgrade,
			c.completionsubmit,
			c.timeavailable,
			c.timedue,
			c.cutoffdate
		FROM context ctx
		JOIN course_modules cm ON cm.id = ctx.instanceid AND ctx.contextlevel = ?
		JOIN modules m ON m.id = cm.module AND m.name = ?
		JOIN checkmark c ON c.id = cm.instance
		WHERE ctx.id IN (?)
		ORDER BY ctx.id
	`, models.ContextLevelModule, models.ModuleName, contextIDs)
	if err != nil {
		return nil, err
	}

	var activities []models.ActivityContext
	if err := s.DB.SelectContext(ctx, &activities, query, args...); err != nil {
		return nil, fmt.Errorf("failed to resolve activities for contexts: %w", err)
	}
	return activities, nil
}

func (s *BaseStore) GetCheckmark(ctx context.Context, checkmarkID int64) (*models.Checkmark, error) {
	var c models.Checkmark
	query := s.Converter(`
		SELECT id, course, name, grade, trackattendance, presentationgrading,
			presentationgrade, completionsubmit, timeavailable, timedue, cutoffdate
		FROM checkmark
		WHERE id = ?
	`)

	err := s.DB.GetContext(ctx, &c, query, checkmarkID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checkmark %d: %w", checkmarkID, err)
	}
	return &c, nil
}

func (s *BaseStore) GetSubmission(ctx context.Context, checkmarkID, userID int64) (*models.Submission, error) {
	var submission models.Submission
	query := s.Converter(`
		SELECT id, checkmarkid, userid, timecreated, timemodified
		FROM checkmark_submissions
		WHERE checkmarkid = ?
		AND userid = ?
		ORDER BY timemodified DESC, id DESC
		LIMIT 1
	`)

	err := s.DB.GetContext(ctx, &submission, query, checkmarkID, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &submission, nil
}

// ListExampleChecks lists every example of the submission's checkmark with
// the submission's check state. Examples without a check are unchecked.
func (s *BaseStore) ListExampleChecks(ctx context.Context, submissionID int64) ([]models.ExampleCheck, error) {
	query := s.Converter(`
		SELECT
			e.id AS exampleid,
			e.name,
			e.grade,
			COALESCE(ch.state, FALSE) AS state
		FROM checkmark_submissions s
		JOIN checkmark_examples e ON e.checkmarkid = s.checkmarkid
		LEFT JOIN checkmark_checks ch ON ch.exampleid = e.id AND ch.submissionid = s.id
		WHERE s.id = ?
		ORDER BY e.id
	`)

	var checks []models.ExampleCheck
	if err := s.DB.SelectContext(ctx, &checks, query, submissionID); err != nil {
		return nil, fmt.Errorf("failed to list checks of submission %d: %w", submissionID, err)
	}
	return checks, nil
}

func (s *BaseStore) GetFeedback(ctx context.Context, checkmarkID, userID int64) (*models.Feedback, error) {
	var feedback models.Feedback
	query := s.Converter(`
		SELECT id, checkmarkid, userid, graderid, grade, feedback, format, attendance,
			presentationgrade, presentationfeedback, presentationformat,
			timecreated, timemodified, mailed
		FROM checkmark_feedbacks
		WHERE checkmarkid = ?
		AND userid = ?
		ORDER BY timemodified DESC, id DESC
		LIMIT 1
	`)

	err := s.DB.GetContext(ctx, &feedback, query, checkmarkID, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return &feedback, nil
}

func (s *BaseStore) GetOverride(ctx context.Context, checkmarkID, userID int64) (*models.Override, error) {
	var override models.Override
	query := s.Converter(`
		SELECT id, checkmarkid, userid, modifierid, timeavailable, timedue, cutoffdate,
			timecreated, timemodified
		FROM checkmark_overrides
		WHERE checkmarkid = ?
		AND userid = ?
		ORDER BY timemodified DESC, id DESC
		LIMIT 1
	`)

	err := s.DB.GetContext(ctx, &override, query, checkmarkID, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get override: %w", err)
	}
	return &override, nil
}

// OverriddenDates resolves the dates overridden for a user. It returns nil
// when no override applies.
func (s *BaseStore) OverriddenDates(ctx context.Context, checkmarkID, userID int64) (*models.OverriddenDates, error) {
	override, err := s.GetOverride(ctx, checkmarkID, userID)
	if err != nil {
		return nil, err
	}
	if override == nil {
		return nil, nil
	}
	return override.Dates(), nil
}

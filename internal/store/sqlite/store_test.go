// internal/store/sqlite/store_test.go
package sqlite

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/checkmark/internal/models"
	"github.com/shrimpsizemoose/checkmark/internal/store"
)

const (
	student  int64 = 11
	teacher  int64 = 21
	manager  int64 = 31
	stranger int64 = 99
)

// setupTestDB creates an in-memory SQLite database and initializes schema
func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	s, err := NewSQLiteStore(":memory:", "../../../migrations")
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
	}

	return s, cleanup
}

type testData struct {
	store      *SQLiteStore
	ctx        context.Context
	now        time.Time
	activity   *models.ActivityContext
	examples   []models.Example
	submission *models.Submission
}

func setupTestData(t *testing.T) (*testData, func()) {
	s, cleanup := setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	activity, err := s.CreateCheckmark(ctx, &models.Checkmark{
		Course:          2,
		Name:            "Week 1 exercises",
		Grade:           10,
		TrackAttendance: true,
	})
	require.NoError(t, err, "Failed to create checkmark")

	var examples []models.Example
	for _, name := range []string{"1", "2", "3"} {
		e := models.Example{CheckmarkID: activity.ID, Name: name, Grade: 3}
		require.NoError(t, s.CreateExample(ctx, &e))
		examples = append(examples, e)
	}

	submission := &models.Submission{
		CheckmarkID:  activity.ID,
		UserID:       student,
		TimeCreated:  now.Add(-time.Hour).Unix(),
		TimeModified: now.Unix(),
	}
	require.NoError(t, s.CreateSubmission(ctx, submission))
	for _, e := range examples[:2] {
		require.NoError(t, s.CreateCheck(ctx, &models.Check{
			ExampleID:    e.ID,
			SubmissionID: submission.ID,
			State:        true,
		}))
	}

	require.NoError(t, s.CreateFeedback(ctx, &models.Feedback{
		CheckmarkID:  activity.ID,
		UserID:       student,
		GraderID:     teacher,
		Grade:        sql.NullFloat64{Float64: 6, Valid: true},
		Feedback:     "well done",
		Attendance:   sql.NullInt64{Int64: models.AttendancePresent, Valid: true},
		TimeCreated:  now.Unix(),
		TimeModified: now.Unix(),
	}))

	require.NoError(t, s.CreateOverride(ctx, &models.Override{
		CheckmarkID:  activity.ID,
		UserID:       student,
		ModifierID:   manager,
		TimeDue:      sql.NullInt64{Int64: now.Add(48 * time.Hour).Unix(), Valid: true},
		TimeCreated:  now.Unix(),
		TimeModified: now.Unix(),
	}))

	return &testData{
		store:      s,
		ctx:        ctx,
		now:        now,
		activity:   activity,
		examples:   examples,
		submission: submission,
	}, cleanup
}

func countRows(t *testing.T, s *SQLiteStore, table string) int {
	var n int
	require.NoError(t, s.DB.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func orphanedChecks(t *testing.T, s *SQLiteStore) int {
	var n int
	require.NoError(t, s.DB.Get(&n, `
		SELECT COUNT(*) FROM checkmark_checks ch
		LEFT JOIN checkmark_submissions s ON s.id = ch.submissionid
		WHERE s.id IS NULL
	`))
	return n
}

func TestMain(m *testing.M) {
	log.Println("Starting SQLite store tests...")
	code := m.Run()
	log.Println("Finished SQLite store tests")
	os.Exit(code)
}

func TestCreateCheckmarkRegistersContext(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	c, err := td.store.GetContext(td.ctx, td.activity.ContextID)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, c.IsModule())
	assert.Equal(t, td.activity.CourseModuleID, c.InstanceID)

	got, err := td.store.GetCheckmark(td.ctx, td.activity.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Week 1 exercises", got.Name)
	assert.True(t, got.TrackAttendance)
	assert.False(t, got.PresentationGrading)

	missing, err := td.store.GetContext(td.ctx, 12345)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestContextIDsForUser(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	for _, user := range []int64{student, teacher, manager} {
		ids, err := td.store.ContextIDsForUser(td.ctx, user)
		require.NoError(t, err)
		require.NotEmpty(t, ids, "user %d", user)
		for _, id := range ids {
			assert.Equal(t, td.activity.ContextID, id)
		}
	}

	ids, err := td.store.ContextIDsForUser(td.ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestContextIDsForUserInBusyActivity(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	for i := int64(0); i < 40; i++ {
		other := 1000 + i
		require.NoError(t, td.store.CreateFeedback(td.ctx, &models.Feedback{
			CheckmarkID: td.activity.ID,
			UserID:      other,
			GraderID:    teacher,
		}))
		require.NoError(t, td.store.CreateOverride(td.ctx, &models.Override{
			CheckmarkID: td.activity.ID,
			UserID:      other,
			ModifierID:  manager,
		}))
	}

	for _, user := range []int64{student, teacher, manager, 1000} {
		ids, err := td.store.ContextIDsForUser(td.ctx, user)
		require.NoError(t, err)
		assert.Equal(t, []int64{td.activity.ContextID}, ids, "user %d", user)
	}
}

func TestUserIDsInContext(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	ids, err := td.store.UserIDsInContext(td.ctx, td.activity.ContextID)
	require.NoError(t, err)

	seen := map[int64]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	assert.Equal(t, map[int64]bool{student: true, teacher: true, manager: true}, seen)
}

func TestActivitiesForContexts(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	course := &models.Context{ContextLevel: models.ContextLevelCourse, InstanceID: td.activity.Course}
	require.NoError(t, td.store.CreateContext(td.ctx, course))

	activities, err := td.store.ActivitiesForContexts(td.ctx, []int64{td.activity.ContextID, course.ID})
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, td.activity.ID, activities[0].ID)
	assert.Equal(t, td.activity.ContextID, activities[0].ContextID)
	assert.Equal(t, int64(10), activities[0].Grade)

	activities, err = td.store.ActivitiesForContexts(td.ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestListExampleChecks(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	checks, err := td.store.ListExampleChecks(td.ctx, td.submission.ID)
	require.NoError(t, err)
	require.Len(t, checks, 3)
	assert.True(t, checks[0].State)
	assert.True(t, checks[1].State)
	assert.False(t, checks[2].State)
	assert.Equal(t, "3", checks[2].Name)
}

func TestFeedbackAndOverrideLookups(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	t.Run("feedback", func(t *testing.T) {
		fb, err := td.store.GetFeedback(td.ctx, td.activity.ID, student)
		require.NoError(t, err)
		require.NotNil(t, fb)
		assert.Equal(t, teacher, fb.GraderID)
		assert.Equal(t, 6.0, fb.Grade.Float64)
		assert.False(t, fb.PresentationGrade.Valid)
		assert.Equal(t, models.AttendancePresent, fb.Attendance.Int64)
	})

	t.Run("overridden dates", func(t *testing.T) {
		dates, err := td.store.OverriddenDates(td.ctx, td.activity.ID, student)
		require.NoError(t, err)
		require.NotNil(t, dates)
		assert.Nil(t, dates.TimeAvailable)
		assert.Nil(t, dates.CutoffDate)
		require.NotNil(t, dates.TimeDue)
		assert.Equal(t, td.now.Add(48*time.Hour).Unix(), *dates.TimeDue)
	})

	t.Run("no override", func(t *testing.T) {
		dates, err := td.store.OverriddenDates(td.ctx, td.activity.ID, stranger)
		require.NoError(t, err)
		assert.Nil(t, dates)
	})
}

func TestDeleteUserData(t *testing.T) {
	t.Run("owner scope keeps authored rows", func(t *testing.T) {
		td, cleanup := setupTestData(t)
		defer cleanup()

		res, err := td.store.DeleteUserData(td.ctx, td.activity.ID, []int64{teacher, manager}, store.ErasureOwner)
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.Total())
		assert.Equal(t, 1, countRows(t, td.store, "checkmark_feedbacks"))
		assert.Equal(t, 1, countRows(t, td.store, "checkmark_overrides"))
	})

	t.Run("all roles removes authored rows", func(t *testing.T) {
		td, cleanup := setupTestData(t)
		defer cleanup()

		res, err := td.store.DeleteUserData(td.ctx, td.activity.ID, []int64{teacher, manager}, store.ErasureAllRoles)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Feedbacks)
		assert.Equal(t, int64(1), res.Overrides)
		assert.Equal(t, 1, countRows(t, td.store, "checkmark_submissions"))
	})

	t.Run("student rows go with their checks", func(t *testing.T) {
		td, cleanup := setupTestData(t)
		defer cleanup()

		res, err := td.store.DeleteUserData(td.ctx, td.activity.ID, []int64{student}, store.ErasureOwner)
		require.NoError(t, err)
		assert.Equal(t, &store.DeletionResult{Checks: 2, Submissions: 1, Feedbacks: 1, Overrides: 1}, res)
		assert.Equal(t, 0, orphanedChecks(t, td.store))
		assert.Equal(t, 0, countRows(t, td.store, "checkmark_checks"))
	})

	t.Run("empty user list", func(t *testing.T) {
		td, cleanup := setupTestData(t)
		defer cleanup()

		res, err := td.store.DeleteUserData(td.ctx, td.activity.ID, nil, store.ErasureAllRoles)
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.Total())
	})
}

func TestDeleteAllData(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	other, err := td.store.CreateCheckmark(td.ctx, &models.Checkmark{Course: 2, Name: "Week 2"})
	require.NoError(t, err)
	require.NoError(t, td.store.CreateSubmission(td.ctx, &models.Submission{
		CheckmarkID: other.ID,
		UserID:      student,
	}))

	res, err := td.store.DeleteAllData(td.ctx, td.activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Total())
	assert.Equal(t, 0, orphanedChecks(t, td.store))
	assert.Equal(t, 1, countRows(t, td.store, "checkmark_submissions"))
	assert.Equal(t, 3, countRows(t, td.store, "checkmark_examples"))
}

func TestForeignKeyBlocksSubmissionBeforeChecks(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	_, err := td.store.DB.Exec(`DELETE FROM checkmark_submissions WHERE id = ?`, td.submission.ID)
	assert.Error(t, err)
}

func TestUserPreferences(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	_, ok, err := s.GetUserPreference(ctx, student, "checkmark_perpage")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetUserPreference(ctx, student, "checkmark_perpage", "20"))
	require.NoError(t, s.SetUserPreference(ctx, student, "checkmark_perpage", "50"))

	value, ok, err := s.GetUserPreference(ctx, student, "checkmark_perpage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "50", value)
}

func TestTranslateToSQLite(t *testing.T) {
	got := translateToSQLite("id BIGSERIAL PRIMARY KEY, n BIGINT NOT NULL, b BOOLEAN NOT NULL DEFAULT FALSE, g DOUBLE PRECISION")
	assert.Equal(t, "id INTEGER PRIMARY KEY AUTOINCREMENT, n INTEGER NOT NULL, b BOOLEAN NOT NULL DEFAULT 0, g REAL", got)
}

func TestUserIDsInContextKeepsDuplicates(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	ids, err := td.store.UserIDsInContext(td.ctx, td.activity.ContextID)
	require.NoError(t, err)
	// student appears as submitter, feedback and override recipient
	assert.Equal(t, []int64{student, student, teacher, student, manager}, ids)
}

package export

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shrimpsizemoose/checkmark/internal/app"
	"github.com/shrimpsizemoose/checkmark/internal/models"
	"github.com/shrimpsizemoose/checkmark/internal/privacy"
)

const (
	DemoStudent int64 = 1001
	DemoTeacher int64 = 2001
)

// SeedDemo fills an empty store with one course of two checkmarks where
// DemoStudent submitted, got feedback from DemoTeacher and a date override.
func SeedDemo(ctx context.Context, service *app.Service, now time.Time) (privacy.ApprovedContextList, error) {
	approved := privacy.ApprovedContextList{UserID: DemoStudent}
	st := service.Store

	sheets := []models.Checkmark{
		{Course: 1, Name: "Sheet 1", Grade: 10, TrackAttendance: true, CompletionSubmit: true},
		{Course: 1, Name: "Sheet 2", Grade: 10, PresentationGrading: true, PresentationGrade: 5},
	}

	for i := range sheets {
		activity, err := st.CreateCheckmark(ctx, &sheets[i])
		if err != nil {
			return approved, err
		}
		approved.ContextIDs = append(approved.ContextIDs, activity.ContextID)

		submission := models.Submission{
			CheckmarkID:  activity.ID,
			UserID:       DemoStudent,
			TimeCreated:  now.Add(-48 * time.Hour).Unix(),
			TimeModified: now.Add(-24 * time.Hour).Unix(),
		}
		if err := st.CreateSubmission(ctx, &submission); err != nil {
			return approved, err
		}

		for n := 1; n <= 3; n++ {
			example := models.Example{CheckmarkID: activity.ID, Name: fmt.Sprintf("%d.%d", i+1, n), Grade: 3}
			if err := st.CreateExample(ctx, &example); err != nil {
				return approved, err
			}
			check := models.Check{ExampleID: example.ID, SubmissionID: submission.ID, State: n != 3}
			if err := st.CreateCheck(ctx, &check); err != nil {
				return approved, err
			}
		}

		if err := st.CreateFeedback(ctx, &models.Feedback{
			CheckmarkID:          activity.ID,
			UserID:               DemoStudent,
			GraderID:             DemoTeacher,
			Grade:                sql.NullFloat64{Float64: 6, Valid: true},
			Feedback:             "Good work, **check 3** again.",
			Format:               privacy.FormatMarkdown,
			Attendance:           sql.NullInt64{Int64: models.AttendancePresent, Valid: true},
			PresentationGrade:    sql.NullFloat64{Float64: 4, Valid: true},
			PresentationFeedback: "Clear presentation.",
			PresentationFormat:   privacy.FormatPlain,
			TimeCreated:          now.Unix(),
			TimeModified:         now.Unix(),
		}); err != nil {
			return approved, err
		}
	}

	if err := st.CreateOverride(ctx, &models.Override{
		CheckmarkID:  sheets[0].ID,
		UserID:       DemoStudent,
		ModifierID:   DemoTeacher,
		TimeDue:      sql.NullInt64{Int64: now.Add(7 * 24 * time.Hour).Unix(), Valid: true},
		TimeCreated:  now.Unix(),
		TimeModified: now.Unix(),
	}); err != nil {
		return approved, err
	}

	if err := service.Preferences.SetUserPreference(ctx, DemoStudent, "checkmark_perpage", "20"); err != nil {
		return approved, err
	}
	return approved, nil
}

package privacy

import (
	"context"
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/checkmark/internal/metrics"
	"github.com/shrimpsizemoose/checkmark/internal/models"
)

const (
	SubcontextSubmission = "submission"
	SubcontextFeedback   = "feedback"
	SubcontextOverride   = "override"
)

type ActivityExport struct {
	Name string `json:"name"`
}

type ExampleExport struct {
	Name    string `json:"name"`
	Checked string `json:"checked"`
	Grade   int64  `json:"grade"`
}

type SubmissionExport struct {
	TimeCreated  string          `json:"timecreated"`
	TimeModified string          `json:"timemodified"`
	Examples     []ExampleExport `json:"examples"`
}

// FeedbackExport leaves out every optional field whose feature the
// activity has switched off.
type FeedbackExport struct {
	Grade                *string `json:"grade,omitempty"`
	Feedback             string  `json:"feedback"`
	Attendance           *string `json:"attendance,omitempty"`
	PresentationGrade    *string `json:"presentationgrade,omitempty"`
	PresentationFeedback *string `json:"presentationfeedback,omitempty"`
	Grader               int64   `json:"grader"`
	Mailed               string  `json:"mailed"`
	TimeCreated          string  `json:"timecreated"`
	TimeModified         string  `json:"timemodified"`
}

type OverrideExport struct {
	TimeAvailable *string `json:"timeavailable,omitempty"`
	TimeDue       *string `json:"timedue,omitempty"`
	CutoffDate    *string `json:"cutoffdate,omitempty"`
}

func strPtr(s string) *string {
	return &s
}

// ExportUserData writes the approved user's submission, feedback and date
// overrides of every approved checkmark context.
func (p *Provider) ExportUserData(ctx context.Context, approved ApprovedContextList, w Writer) error {
	metrics.PrivacyRequestsTotal.WithLabelValues("export_user_data").Inc()

	if len(approved.ContextIDs) == 0 {
		return nil
	}

	activities, err := p.store.ActivitiesForContexts(ctx, approved.ContextIDs)
	if err != nil {
		return fmt.Errorf("failed to resolve activities: %w", err)
	}

	for i := range activities {
		if err := p.exportActivity(ctx, &activities[i], approved.UserID, w); err != nil {
			return err
		}
	}

	logger.Debug.Printf("Exported user %d data from %d checkmark contexts", approved.UserID, len(activities))
	return nil
}

func (p *Provider) exportActivity(ctx context.Context, activity *models.ActivityContext, userID int64, w Writer) error {
	if err := w.ExportData(activity.ContextID, nil, ActivityExport{Name: activity.Name}); err != nil {
		return fmt.Errorf("failed to export checkmark %d: %w", activity.ID, err)
	}

	if err := p.exportSubmission(ctx, activity, userID, w); err != nil {
		return err
	}
	if err := p.exportFeedback(ctx, activity, userID, w); err != nil {
		return err
	}
	return p.exportOverride(ctx, activity, userID, w)
}

func (p *Provider) exportSubmission(ctx context.Context, activity *models.ActivityContext, userID int64, w Writer) error {
	submission, err := p.store.GetSubmission(ctx, activity.ID, userID)
	if err != nil {
		return fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil
	}

	checks, err := p.store.ListExampleChecks(ctx, submission.ID)
	if err != nil {
		return fmt.Errorf("failed to get checks: %w", err)
	}

	data := SubmissionExport{
		TimeCreated:  p.transform.Datetime(submission.TimeCreated),
		TimeModified: p.transform.Datetime(submission.TimeModified),
		Examples:     make([]ExampleExport, 0, len(checks)),
	}
	for _, check := range checks {
		data.Examples = append(data.Examples, ExampleExport{
			Name:    check.Name,
			Checked: p.transform.YesNo(check.State),
			Grade:   check.Grade,
		})
	}

	return w.ExportData(activity.ContextID, []string{SubcontextSubmission}, data)
}

func (p *Provider) exportFeedback(ctx context.Context, activity *models.ActivityContext, userID int64, w Writer) error {
	feedback, err := p.store.GetFeedback(ctx, activity.ID, userID)
	if err != nil {
		return fmt.Errorf("failed to get feedback: %w", err)
	}
	if feedback == nil {
		return nil
	}

	data := FeedbackExport{
		Feedback:     p.formatter.Format(feedback.Feedback, feedback.Format),
		Grader:       p.transform.User(feedback.GraderID),
		Mailed:       p.transform.YesNo(feedback.Mailed),
		TimeCreated:  p.transform.Datetime(feedback.TimeCreated),
		TimeModified: p.transform.Datetime(feedback.TimeModified),
	}
	if activity.GradingEnabled() {
		data.Grade = strPtr(p.transform.Grade(feedback.Grade))
	}
	if activity.TrackAttendance {
		data.Attendance = strPtr(p.transform.Attendance(feedback.Attendance))
	}
	if activity.PresentationGrading {
		data.PresentationGrade = strPtr(p.transform.Grade(feedback.PresentationGrade))
		data.PresentationFeedback = strPtr(p.formatter.Format(feedback.PresentationFeedback, feedback.PresentationFormat))
	}

	return w.ExportData(activity.ContextID, []string{SubcontextFeedback}, data)
}

func (p *Provider) exportOverride(ctx context.Context, activity *models.ActivityContext, userID int64, w Writer) error {
	dates, err := p.overrides.OverriddenDates(ctx, activity.ID, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve overridden dates: %w", err)
	}
	if dates.Empty() {
		return nil
	}

	data := OverrideExport{}
	if dates.TimeAvailable != nil {
		data.TimeAvailable = strPtr(p.transform.Datetime(*dates.TimeAvailable))
	}
	if dates.TimeDue != nil {
		data.TimeDue = strPtr(p.transform.Datetime(*dates.TimeDue))
	}
	if dates.CutoffDate != nil {
		data.CutoffDate = strPtr(p.transform.Datetime(*dates.CutoffDate))
	}

	return w.ExportData(activity.ContextID, []string{SubcontextOverride}, data)
}

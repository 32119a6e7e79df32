package privacy

import (
	"context"

	"github.com/shrimpsizemoose/checkmark/internal/models"
	"github.com/shrimpsizemoose/checkmark/internal/store"
)

const Component = "mod_checkmark"

// DataStore is the slice of the checkmark store the provider reads and
// deletes through.
type DataStore interface {
	GetContext(ctx context.Context, contextID int64) (*models.Context, error)
	ContextIDsForUser(ctx context.Context, userID int64) ([]int64, error)
	UserIDsInContext(ctx context.Context, contextID int64) ([]int64, error)
	ActivitiesForContexts(ctx context.Context, contextIDs []int64) ([]models.ActivityContext, error)

	GetSubmission(ctx context.Context, checkmarkID, userID int64) (*models.Submission, error)
	ListExampleChecks(ctx context.Context, submissionID int64) ([]models.ExampleCheck, error)
	GetFeedback(ctx context.Context, checkmarkID, userID int64) (*models.Feedback, error)

	DeleteUserData(ctx context.Context, checkmarkID int64, userIDs []int64, scope store.ErasureScope) (*store.DeletionResult, error)
	DeleteAllData(ctx context.Context, checkmarkID int64) (*store.DeletionResult, error)
}

// DateOverrideResolver returns the dates overridden for a user, or nil.
type DateOverrideResolver interface {
	OverriddenDates(ctx context.Context, checkmarkID, userID int64) (*models.OverriddenDates, error)
}

type PreferenceStore interface {
	GetUserPreference(ctx context.Context, userID int64, name string) (string, bool, error)
}

type TextFormatter interface {
	Format(text string, format int) string
}

// Provider reports, exports and erases the personal data a checkmark
// activity holds.
type Provider struct {
	store       DataStore
	overrides   DateOverrideResolver
	preferences PreferenceStore
	formatter   TextFormatter
	transform   *Transform
}

func NewProvider(
	store DataStore,
	overrides DateOverrideResolver,
	preferences PreferenceStore,
	formatter TextFormatter,
	transform *Transform,
) *Provider {
	if transform == nil {
		transform = NewTransform(nil, "")
	}
	return &Provider{
		store:       store,
		overrides:   overrides,
		preferences: preferences,
		formatter:   formatter,
		transform:   transform,
	}
}

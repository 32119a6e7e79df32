package completion

import (
	"context"
	"errors"
	"fmt"

	"github.com/shrimpsizemoose/checkmark/internal/metrics"
	"github.com/shrimpsizemoose/checkmark/internal/models"
)

type State int

const (
	Incomplete State = 0
	Complete   State = 1
)

func (s State) String() string {
	if s == Complete {
		return "complete"
	}
	return "incomplete"
}

const (
	RuleView     = "completionview"
	RuleSubmit   = "completionsubmit"
	RuleUseGrade = "completionusegrade"
)

var ErrUnknownRule = errors.New("unknown completion rule")

// SubmissionLookup finds the submission of a user, or nil.
type SubmissionLookup interface {
	GetSubmission(ctx context.Context, checkmarkID, userID int64) (*models.Submission, error)
}

// CustomCompletion evaluates the checkmark specific completion rules for one
// user.
type CustomCompletion struct {
	activity *models.Checkmark
	userID   int64
	lookup   SubmissionLookup
}

func New(activity *models.Checkmark, userID int64, lookup SubmissionLookup) *CustomCompletion {
	return &CustomCompletion{
		activity: activity,
		userID:   userID,
		lookup:   lookup,
	}
}

func (c *CustomCompletion) GetState(ctx context.Context, rule string) (State, error) {
	if rule != RuleSubmit {
		return Incomplete, fmt.Errorf("%w: %s", ErrUnknownRule, rule)
	}

	state, err := c.submitState(ctx)
	if err != nil {
		return Incomplete, err
	}
	metrics.CompletionChecksTotal.WithLabelValues(state.String()).Inc()
	return state, nil
}

func (c *CustomCompletion) submitState(ctx context.Context) (State, error) {
	if !c.activity.CompletionSubmit {
		return Incomplete, nil
	}

	submission, err := c.lookup.GetSubmission(ctx, c.activity.ID, c.userID)
	if err != nil {
		return Incomplete, fmt.Errorf("failed to get submission of user %d: %w", c.userID, err)
	}
	if submission.IsSubmitted() {
		return Complete, nil
	}
	return Incomplete, nil
}

// IsDefined reports whether the activity has the rule switched on.
func (c *CustomCompletion) IsDefined(rule string) bool {
	return rule == RuleSubmit && c.activity.CompletionSubmit
}

func DefinedCustomRules() []string {
	return []string{RuleSubmit}
}

func CustomRuleDescriptions() map[string]string {
	return map[string]string{
		RuleSubmit: "Make a submission",
	}
}

// SortOrder is the display order of the rules an activity may use.
func SortOrder() []string {
	return []string{
		RuleView,
		RuleSubmit,
		RuleUseGrade,
	}
}

package privacy

import (
	"context"
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/checkmark/internal/metrics"
	"github.com/shrimpsizemoose/checkmark/internal/models"
	"github.com/shrimpsizemoose/checkmark/internal/store"
)

func recordDeletion(result *store.DeletionResult) {
	for table, n := range result.ByTable() {
		if n > 0 {
			metrics.RowsDeletedTotal.WithLabelValues(table).Add(float64(n))
		}
	}
}

// activityForContext resolves a single module context, returning nil for
// any other context.
func (p *Provider) activityForContext(ctx context.Context, contextID int64) (*models.ActivityContext, error) {
	activities, err := p.store.ActivitiesForContexts(ctx, []int64{contextID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve activity for context %d: %w", contextID, err)
	}
	if len(activities) == 0 {
		return nil, nil
	}
	return &activities[0], nil
}

// DeleteDataForUser erases what the user owns in the approved contexts:
// their submission with its checks, the feedback they received and their
// date overrides. Feedback they graded and overrides they granted stay.
func (p *Provider) DeleteDataForUser(ctx context.Context, approved ApprovedContextList) (*store.DeletionResult, error) {
	metrics.PrivacyRequestsTotal.WithLabelValues("delete_data_for_user").Inc()

	total := &store.DeletionResult{}
	if len(approved.ContextIDs) == 0 {
		return total, nil
	}

	activities, err := p.store.ActivitiesForContexts(ctx, approved.ContextIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve activities: %w", err)
	}

	for _, activity := range activities {
		res, err := p.store.DeleteUserData(ctx, activity.ID, []int64{approved.UserID}, store.ErasureOwner)
		if err != nil {
			return nil, fmt.Errorf("failed to delete user %d from checkmark %d: %w", approved.UserID, activity.ID, err)
		}
		total.Add(res)
	}

	recordDeletion(total)
	logger.Info.Printf("Erased user %d from %d checkmarks: %+v", approved.UserID, len(activities), *total)
	return total, nil
}

// DeleteDataForUsers erases every involvement of the listed users in one
// context, including feedback they graded and overrides they granted.
func (p *Provider) DeleteDataForUsers(ctx context.Context, approved ApprovedUserList) (*store.DeletionResult, error) {
	metrics.PrivacyRequestsTotal.WithLabelValues("delete_data_for_users").Inc()

	if len(approved.UserIDs) == 0 {
		return &store.DeletionResult{}, nil
	}

	activity, err := p.activityForContext(ctx, approved.ContextID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return &store.DeletionResult{}, nil
	}

	res, err := p.store.DeleteUserData(ctx, activity.ID, approved.UserIDs, store.ErasureAllRoles)
	if err != nil {
		return nil, fmt.Errorf("failed to delete users from checkmark %d: %w", activity.ID, err)
	}

	recordDeletion(res)
	logger.Info.Printf("Erased %d users from checkmark %d: %+v", len(approved.UserIDs), activity.ID, *res)
	return res, nil
}

// DeleteDataForAllUsersInContext purges all user data of the context's
// checkmark.
func (p *Provider) DeleteDataForAllUsersInContext(ctx context.Context, contextID int64) (*store.DeletionResult, error) {
	metrics.PrivacyRequestsTotal.WithLabelValues("delete_data_for_all_users").Inc()

	activity, err := p.activityForContext(ctx, contextID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return &store.DeletionResult{}, nil
	}

	res, err := p.store.DeleteAllData(ctx, activity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to purge checkmark %d: %w", activity.ID, err)
	}

	recordDeletion(res)
	logger.Info.Printf("Purged checkmark %d in context %d: %+v", activity.ID, contextID, *res)
	return res, nil
}

package privacy

import (
	"context"
	"fmt"

	"github.com/shrimpsizemoose/checkmark/internal/metrics"
)

// ContextsForUser finds every checkmark context where the user appears as
// submitter, feedback recipient, grader, override recipient or modifier.
func (p *Provider) ContextsForUser(ctx context.Context, userID int64) (*ContextList, error) {
	metrics.PrivacyRequestsTotal.WithLabelValues("contexts_for_user").Inc()

	ids, err := p.store.ContextIDsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contexts for user %d: %w", userID, err)
	}

	list := NewContextList()
	list.Add(ids...)
	return list, nil
}

// UsersInContext adds every user with data in the list's context. Contexts
// other than activity modules are left untouched.
func (p *Provider) UsersInContext(ctx context.Context, list *UserList) error {
	metrics.PrivacyRequestsTotal.WithLabelValues("users_in_context").Inc()

	c, err := p.store.GetContext(ctx, list.ContextID())
	if err != nil {
		return fmt.Errorf("failed to get context %d: %w", list.ContextID(), err)
	}
	if !c.IsModule() {
		return nil
	}

	ids, err := p.store.UserIDsInContext(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to get users in context %d: %w", c.ID, err)
	}
	list.Add(ids...)
	return nil
}

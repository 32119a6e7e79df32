package privacy

import (
	"context"
	"fmt"

	"github.com/shrimpsizemoose/checkmark/internal/metrics"
)

type userPreference struct {
	name        string
	description string
	// labels maps stored values to readable ones; unknown values pass through
	labels map[string]string
}

var yesNoLabels = map[string]string{"0": "No", "1": "Yes"}

var userPreferences = []userPreference{
	{
		name:        "checkmark_filter",
		description: "Which submissions the grading table shows.",
		labels: map[string]string{
			"1": "All",
			"2": "Submitted",
			"3": "Requires grading",
			"4": "Selected users",
			"5": "Not submitted",
		},
	},
	{name: "checkmark_perpage", description: "How many submissions are listed per page."},
	{name: "checkmark_quickgrade", description: "Whether quick grading is enabled.", labels: yesNoLabels},
	{
		name:        "checkmark_textsize",
		description: "Text size used when printing submissions.",
		labels:      map[string]string{"0": "Small", "1": "Medium", "2": "Large"},
	},
	{
		name:        "checkmark_pageorientation",
		description: "Page orientation used when printing submissions.",
		labels:      map[string]string{"portrait": "Portrait", "landscape": "Landscape"},
	},
	{name: "checkmark_printheader", description: "Whether printed submissions get a header.", labels: yesNoLabels},
	{name: "checkmark_forcesinglelinenames", description: "Whether printed names are kept on one line.", labels: yesNoLabels},
	{name: "checkmark_sumabs", description: "Whether printouts show absolute sums.", labels: yesNoLabels},
	{name: "checkmark_sumrel", description: "Whether printouts show relative sums.", labels: yesNoLabels},
	{name: "checkmark_seperatenamecolumns", description: "Whether first and last name get separate columns.", labels: yesNoLabels},
}

// ExportUserPreferences writes the stored checkmark preferences of a user.
// Preferences without a stored value are skipped.
func (p *Provider) ExportUserPreferences(ctx context.Context, userID int64, w Writer) error {
	metrics.PrivacyRequestsTotal.WithLabelValues("export_user_preferences").Inc()

	for _, pref := range userPreferences {
		value, ok, err := p.preferences.GetUserPreference(ctx, userID, pref.name)
		if err != nil {
			return fmt.Errorf("failed to get preference %s: %w", pref.name, err)
		}
		if !ok {
			continue
		}

		if label, found := pref.labels[value]; found {
			value = label
		}
		if err := w.ExportUserPreference(Component, pref.name, value, pref.description); err != nil {
			return fmt.Errorf("failed to export preference %s: %w", pref.name, err)
		}
	}
	return nil
}

// PreferenceNames lists the preferences this component stores per user.
func PreferenceNames() []string {
	names := make([]string, 0, len(userPreferences))
	for _, pref := range userPreferences {
		names = append(names, pref.name)
	}
	return names
}

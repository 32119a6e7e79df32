package privacy

const (
	ItemDatabaseTable  = "database_table"
	ItemUserPreference = "user_preference"
)

type MetadataItem struct {
	Type    string            `json:"type"`
	Name    string            `json:"name"`
	Fields  map[string]string `json:"fields,omitempty"`
	Summary string            `json:"summary"`
}

// Collection declares what personal data the component stores.
type Collection struct {
	Component string         `json:"component"`
	Items     []MetadataItem `json:"items"`
}

func (c *Collection) addTable(name string, fields map[string]string, summary string) {
	c.Items = append(c.Items, MetadataItem{
		Type:    ItemDatabaseTable,
		Name:    name,
		Fields:  fields,
		Summary: summary,
	})
}

func (c *Collection) addUserPreference(name, summary string) {
	c.Items = append(c.Items, MetadataItem{
		Type:    ItemUserPreference,
		Name:    name,
		Summary: summary,
	})
}

func (p *Provider) GetMetadata() *Collection {
	c := &Collection{Component: Component}

	c.addTable("checkmark_submissions", map[string]string{
		"checkmarkid":  "The ID of the checkmark the submission belongs to.",
		"userid":       "The ID of the user who submitted.",
		"timecreated":  "The time the submission was first saved.",
		"timemodified": "The time the submission was last changed.",
	}, "Stores the submissions of users.")

	c.addTable("checkmark_checks", map[string]string{
		"exampleid":    "The ID of the example the check refers to.",
		"submissionid": "The ID of the submission the check belongs to.",
		"state":        "Whether the example has been checked.",
	}, "Stores the checked state of every example of a submission.")

	c.addTable("checkmark_feedbacks", map[string]string{
		"checkmarkid":          "The ID of the checkmark the feedback belongs to.",
		"userid":               "The ID of the user receiving the feedback.",
		"graderid":             "The ID of the user who wrote the feedback.",
		"grade":                "The grade given to the submission.",
		"feedback":             "The feedback text.",
		"format":               "The format of the feedback text.",
		"attendance":           "Whether the user attended.",
		"presentationgrade":    "The grade given for the presentation.",
		"presentationfeedback": "The feedback text for the presentation.",
		"presentationformat":   "The format of the presentation feedback text.",
		"timecreated":          "The time the feedback was first saved.",
		"timemodified":         "The time the feedback was last changed.",
		"mailed":               "Whether the user has been notified about the feedback.",
	}, "Stores feedback, grades and attendance given to users.")

	c.addTable("checkmark_overrides", map[string]string{
		"checkmarkid":   "The ID of the checkmark the override belongs to.",
		"userid":        "The ID of the user the dates are overridden for.",
		"modifierid":    "The ID of the user who granted the override.",
		"timeavailable": "The overridden time the checkmark opens.",
		"timedue":       "The overridden due date.",
		"cutoffdate":    "The overridden cut-off date.",
		"timecreated":   "The time the override was created.",
		"timemodified":  "The time the override was last changed.",
	}, "Stores per-user date overrides.")

	for _, pref := range userPreferences {
		c.addUserPreference(pref.name, pref.description)
	}

	return c
}

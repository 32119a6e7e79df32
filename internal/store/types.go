package store

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

type DBConfig struct {
	DSN           string
	Type          DatabaseType
	MigrationsDir string
}

// ErasureScope selects which role columns identify a user's rows when
// deleting feedbacks and overrides.
type ErasureScope int

const (
	// ErasureOwner matches feedback and override recipients only.
	ErasureOwner ErasureScope = iota
	// ErasureAllRoles also matches graders and override modifiers.
	ErasureAllRoles
)

func (e ErasureScope) String() string {
	if e == ErasureAllRoles {
		return "all_roles"
	}
	return "owner"
}

type DeletionResult struct {
	Checks      int64 `json:"checks"`
	Submissions int64 `json:"submissions"`
	Feedbacks   int64 `json:"feedbacks"`
	Overrides   int64 `json:"overrides"`
}

func (r *DeletionResult) Total() int64 {
	return r.Checks + r.Submissions + r.Feedbacks + r.Overrides
}

func (r *DeletionResult) Add(other *DeletionResult) {
	if other == nil {
		return
	}
	r.Checks += other.Checks
	r.Submissions += other.Submissions
	r.Feedbacks += other.Feedbacks
	r.Overrides += other.Overrides
}

func (r *DeletionResult) ByTable() map[string]int64 {
	return map[string]int64{
		"checkmark_checks":      r.Checks,
		"checkmark_submissions": r.Submissions,
		"checkmark_feedbacks":   r.Feedbacks,
		"checkmark_overrides":   r.Overrides,
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shrimpsizemoose/checkmark/internal/completion"
	"github.com/shrimpsizemoose/checkmark/internal/prefs"
	"github.com/shrimpsizemoose/checkmark/internal/privacy"
	"github.com/shrimpsizemoose/checkmark/internal/store"
)

var ErrNotFound = errors.New("not found")

// PreferenceBackend stores per-user preference values.
type PreferenceBackend interface {
	GetUserPreference(ctx context.Context, userID int64, name string) (string, bool, error)
	SetUserPreference(ctx context.Context, userID int64, name, value string) error
}

type Service struct {
	Config      *Config
	Store       store.CheckmarkStore
	Preferences PreferenceBackend
	Provider    *privacy.Provider

	redis    *prefs.RedisStore
	validate *validator.Validate
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := NewStore(DBConfigFromDSN(config.Database.DSN, config.Database.MigrationsDir))
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	service, err := NewServiceWithStore(config, st)
	if err != nil {
		st.Close()
		return nil, err
	}
	return service, nil
}

// NewServiceWithStore wires the preference backend and the privacy provider
// around an already opened store.
func NewServiceWithStore(config *Config, st store.CheckmarkStore) (*Service, error) {
	loc, err := config.Location()
	if err != nil {
		return nil, err
	}

	s := &Service{
		Config:   config,
		Store:    st,
		validate: validator.New(),
	}

	switch config.Preferences.Backend {
	case PreferencesRedis:
		rs, err := prefs.Connect(context.Background(), config.Preferences.RedisURL, config.Preferences.KeyTemplate)
		if err != nil {
			return nil, fmt.Errorf("failed to init preferences: %w", err)
		}
		s.redis = rs
		s.Preferences = rs
	default:
		s.Preferences = st
	}

	s.Provider = privacy.NewProvider(
		st,
		st,
		s.Preferences,
		privacy.NewHTMLFormatter(),
		privacy.NewTransform(loc, config.Display.DateFormat),
	)
	return s, nil
}

func (s *Service) ValidateHeaders(headers map[string][]string) bool {
	for _, required := range s.Config.API.RequiredHeaders {
		value := headers[http.CanonicalHeaderKey(required.Name)]
		if len(value) == 0 || !strings.EqualFold(value[0], required.Value) {
			return false
		}
	}
	return true
}

// Validate checks a request payload against its validate tags.
func (s *Service) Validate(v interface{}) error {
	return s.validate.Struct(v)
}

// ExportUser collects the user's data in the approved contexts together
// with their stored preferences.
func (s *Service) ExportUser(ctx context.Context, approved privacy.ApprovedContextList) (*privacy.DocumentWriter, error) {
	if err := s.Validate(approved); err != nil {
		return nil, fmt.Errorf("invalid approved context list: %w", err)
	}

	w := privacy.NewDocumentWriter()
	if err := s.Provider.ExportUserData(ctx, approved, w); err != nil {
		return nil, err
	}
	if err := s.Provider.ExportUserPreferences(ctx, approved.UserID, w); err != nil {
		return nil, err
	}
	return w, nil
}

type RuleState struct {
	Rule        string `json:"rule"`
	Description string `json:"description"`
	Defined     bool   `json:"defined"`
	State       string `json:"state"`
}

type CompletionReport struct {
	CheckmarkID int64       `json:"checkmarkid"`
	UserID      int64       `json:"userid"`
	Rules       []RuleState `json:"rules"`
}

// Completion evaluates every custom completion rule of the checkmark for
// the user.
func (s *Service) Completion(ctx context.Context, checkmarkID, userID int64) (*CompletionReport, error) {
	activity, err := s.Store.GetCheckmark(ctx, checkmarkID)
	if err != nil {
		return nil, fmt.Errorf("failed to get checkmark %d: %w", checkmarkID, err)
	}
	if activity == nil {
		return nil, fmt.Errorf("checkmark %d: %w", checkmarkID, ErrNotFound)
	}

	cc := completion.New(activity, userID, s.Store)
	descriptions := completion.CustomRuleDescriptions()

	report := &CompletionReport{CheckmarkID: checkmarkID, UserID: userID}
	for _, rule := range completion.DefinedCustomRules() {
		state, err := cc.GetState(ctx, rule)
		if err != nil {
			return nil, err
		}
		report.Rules = append(report.Rules, RuleState{
			Rule:        rule,
			Description: descriptions[rule],
			Defined:     cc.IsDefined(rule),
			State:       state.String(),
		})
	}
	return report, nil
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("preferences: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}

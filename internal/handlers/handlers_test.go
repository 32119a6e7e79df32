package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/checkmark/internal/app"
	"github.com/shrimpsizemoose/checkmark/internal/models"
)

const (
	student int64 = 11
	teacher int64 = 21
)

type fixture struct {
	mux      *http.ServeMux
	service  *app.Service
	activity *models.ActivityContext
}

func setupFixture(t *testing.T) *fixture {
	config, err := app.ParseConfig("test.toml", []byte(`
[server]
port = ":0"

[api]
required_headers = [{ name = "X-Privacy-Client", value = "lms" }]

[database]
dsn = ":memory:"
migrations_dir = "../../migrations"
`))
	require.NoError(t, err)

	st, err := app.NewStore(app.DBConfigFromDSN(config.Database.DSN, config.Database.MigrationsDir))
	require.NoError(t, err)
	service, err := app.NewServiceWithStore(config, st)
	require.NoError(t, err)
	t.Cleanup(func() { service.Close() })

	ctx := context.Background()
	activity, err := st.CreateCheckmark(ctx, &models.Checkmark{
		Course:           4,
		Name:             "Sheet 1",
		Grade:            10,
		CompletionSubmit: true,
	})
	require.NoError(t, err)

	example := models.Example{CheckmarkID: activity.ID, Name: "1", Grade: 10}
	require.NoError(t, st.CreateExample(ctx, &example))
	submission := models.Submission{CheckmarkID: activity.ID, UserID: student, TimeCreated: 1700000000, TimeModified: 1700000000}
	require.NoError(t, st.CreateSubmission(ctx, &submission))
	require.NoError(t, st.CreateCheck(ctx, &models.Check{ExampleID: example.ID, SubmissionID: submission.ID, State: true}))
	require.NoError(t, st.CreateFeedback(ctx, &models.Feedback{
		CheckmarkID: activity.ID,
		UserID:      student,
		GraderID:    teacher,
		Grade:       sql.NullFloat64{Float64: 8, Valid: true},
		Feedback:    "well done",
		Format:      2,
	}))

	mux := http.NewServeMux()
	Register(mux, service)
	return &fixture{mux: mux, service: service, activity: activity}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req.Header.Set("X-Privacy-Client", "lms")

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestRequiredHeaders(t *testing.T) {
	f := setupFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/privacy/metadata", nil)
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMetadata(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/privacy/metadata", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Component string `json:"component"`
		Items     []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "mod_checkmark", body.Component)
	assert.NotEmpty(t, body.Items)
}

func TestDiscoveryRoutes(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/privacy/users/%d/contexts", teacher), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"userid": %d, "contexts": [%d]}`, teacher, f.activity.ContextID), rec.Body.String())

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/privacy/contexts/%d/users", f.activity.ContextID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"contextid": %d, "users": [%d, %d]}`, f.activity.ContextID, student, teacher), rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/v1/privacy/users/abc/contexts", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportRoute(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/privacy/export",
		fmt.Sprintf(`{"userid": %d, "contexts": [%d]}`, student, f.activity.ContextID))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Contexts map[string]map[string]json.RawMessage `json:"contexts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	data := doc.Contexts[fmt.Sprint(f.activity.ContextID)]
	require.NotNil(t, data)
	assert.Contains(t, data, "")
	assert.Contains(t, data, "submission")
	assert.Contains(t, data, "feedback")
	assert.NotContains(t, data, "override")

	rec = f.do(t, http.MethodPost, "/api/v1/privacy/export", `{"userid": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/privacy/export", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreferencesRoute(t *testing.T) {
	f := setupFixture(t)
	require.NoError(t, f.service.Preferences.SetUserPreference(context.Background(), student, "checkmark_perpage", "30"))

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/privacy/users/%d/preferences", student), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var prefs map[string]map[string]struct {
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prefs))
	assert.Equal(t, "30", prefs["mod_checkmark"]["checkmark_perpage"].Value)
}

func TestDeleteRoutes(t *testing.T) {
	t.Run("single user keeps graded feedback", func(t *testing.T) {
		f := setupFixture(t)
		rec := f.do(t, http.MethodPost, "/api/v1/privacy/delete/user",
			fmt.Sprintf(`{"userid": %d, "contexts": [%d]}`, teacher, f.activity.ContextID))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total":0`)
	})

	t.Run("user list erases graded feedback", func(t *testing.T) {
		f := setupFixture(t)
		rec := f.do(t, http.MethodPost, "/api/v1/privacy/delete/users",
			fmt.Sprintf(`{"contextid": %d, "users": [%d]}`, f.activity.ContextID, teacher))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total":1`)
	})

	t.Run("whole context", func(t *testing.T) {
		f := setupFixture(t)
		rec := f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/privacy/contexts/%d/data", f.activity.ContextID), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total":3`)

		rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/privacy/contexts/%d/users", f.activity.ContextID), "")
		assert.JSONEq(t, fmt.Sprintf(`{"contextid": %d, "users": []}`, f.activity.ContextID), rec.Body.String())
	})

	t.Run("invalid user list", func(t *testing.T) {
		f := setupFixture(t)
		rec := f.do(t, http.MethodPost, "/api/v1/privacy/delete/users", `{"contextid": 0, "users": [1]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCompletionRoute(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/checkmarks/%d/completion/%d", f.activity.ID, student), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"complete"`)

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/checkmarks/%d/completion/%d", f.activity.ID, teacher), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"incomplete"`)

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/checkmarks/%d/completion/%d", f.activity.ID+50, student), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

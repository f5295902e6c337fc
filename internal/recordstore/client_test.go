package recordstore_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/PDG1999/tool-dashboard-samebi/internal/recordstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testResultsBody = `[
  {
    "id": "a1",
    "created_at": "2026-10-01T09:30:00Z",
    "aborted": false,
    "completed_questions": 40,
    "risk_level": "Hoch",
    "primary_concern": "Glücksspiel",
    "client_id": "c-1",
    "counselor_id": 7,
    "professional_scores": {
      "gambling": 82.5, "alcohol": 120, "digital": -3,
      "addictionDirection": {"primary": {"type": "gambling", "confidence": 0.8}, "patterns": {"polyaddiction": true, "substanceBased": 20, "behavioralBased": 80}}
    },
    "tracking_data": {"geo_data": {"city": "Zürich", "country": "CH"}, "device_type": "mobile"}
  },
  {
    "id": "a2",
    "created_at": "2026-10-02T10:00:00.123456",
    "aborted": true,
    "aborted_at_question": "12",
    "completed_questions": 11,
    "professional_scores": {"riskLevel": "kritisch", "addictionDirection": "not-an-object"},
    "client_id": null,
    "city": "Bern",
    "device_type": "desktop"
  },
  {"aborted": true},
  {"id": "a4", "aborted": false, "aborted_at_question": 5, "completed_questions": 99},
  {"id": "a5", "aborted": "yes"}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...recordstore.ClientOption) *recordstore.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	session, err := recordstore.NewSession(srv.URL, "")
	require.NoError(t, err)
	return recordstore.New(session, opts...)
}

func TestFetchAssessmentRecords_ParsesAndSkips(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test_results", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testResultsBody))
	})

	records, err := client.FetchAssessmentRecords(context.Background(), models.RangeAllTime)
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "a1", first.ID)
	assert.Equal(t, time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC), first.CreatedAt)
	assert.Equal(t, "Hoch", first.RiskLevel)
	assert.Equal(t, "Glücksspiel", first.PrimaryConcern)
	require.NotNil(t, first.ClientID)
	assert.Equal(t, "c-1", *first.ClientID)
	require.NotNil(t, first.CounselorID)
	assert.Equal(t, "7", *first.CounselorID)
	assert.Equal(t, map[string]float64{"gambling": 82.5, "alcohol": 100, "digital": 0}, first.CategoryScores)
	require.NotNil(t, first.AddictionDirection)
	assert.True(t, first.AddictionDirection.Patterns.Polyaddiction)
	assert.Equal(t, "Zürich", first.City())
	assert.Equal(t, "mobile", first.DeviceType())
	assert.Nil(t, first.AbortedAtQuestion)

	second := records[1]
	assert.True(t, second.Aborted)
	require.NotNil(t, second.AbortedAtQuestion)
	assert.Equal(t, 12, *second.AbortedAtQuestion)
	assert.Equal(t, "kritisch", second.RiskLevel)
	assert.Nil(t, second.AddictionDirection)
	assert.True(t, second.Anonymous())
	assert.Equal(t, "Bern", second.City())
	assert.Equal(t, "desktop", second.DeviceType())
	assert.False(t, second.CreatedAt.IsZero())

	third := records[2]
	assert.Equal(t, "a4", third.ID)
	assert.Nil(t, third.AbortedAtQuestion, "question index is dropped on completed checks")
	assert.Equal(t, models.TotalQuestions, third.CompletedQuestions)
	assert.Nil(t, third.Tracking)
}

func TestFetchAssessmentRecords_AbortQuestionBounds(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
  {"id": "b1", "aborted": true, "aborted_at_question": 1e30},
  {"id": "b2", "aborted": true, "aborted_at_question": "-1e30"},
  {"id": "b3", "aborted": true, "aborted_at_question": 7.5},
  {"id": "b4", "aborted": true, "aborted_at_question": 57},
  {"id": "b5", "aborted": true, "aborted_at_question": -2}
]`))
	})

	records, err := client.FetchAssessmentRecords(context.Background(), models.RangeAllTime)
	require.NoError(t, err)
	require.Len(t, records, 5)

	for _, rec := range records[:3] {
		assert.Nil(t, rec.AbortedAtQuestion, rec.ID)
		assert.True(t, rec.Aborted, rec.ID)
	}
	require.NotNil(t, records[3].AbortedAtQuestion)
	assert.Equal(t, 57, *records[3].AbortedAtQuestion, "out-of-questionnaire indexes are kept as-is")
	require.NotNil(t, records[4].AbortedAtQuestion)
	assert.Equal(t, -2, *records[4].AbortedAtQuestion)
}

func TestFetchAssessmentRecords_RangeFilter(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	}, recordstore.WithClock(func() time.Time { return now }))

	records, err := client.FetchAssessmentRecords(context.Background(), models.Range7Days)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, []string{"created_at.desc"}, gotQuery["order"])
	assert.Equal(t, []string{"gte.2026-10-11T12:00:00Z"}, gotQuery["created_at"])

	_, err = client.FetchAssessmentRecords(context.Background(), models.RangeAllTime)
	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "created_at")
}

func TestFetch_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"JWT expired"}`))
	})

	_, err := client.FetchAssessmentRecords(context.Background(), models.Range30Days)
	require.Error(t, err)
	assert.Equal(t, "JWT expired", err.Error())

	var statusErr *recordstore.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestFetch_UpstreamErrorWithoutMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchClients(context.Background())
	require.Error(t, err)
	assert.Equal(t, "API Error: 502", err.Error())
}

func TestFetchClientsAndCounselors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/clients":
			_, _ = w.Write([]byte(`[{"id":"c1","name":"Lea","email":null,"counselor_id":"b1","created_at":"2026-09-01T00:00:00Z"},{"name":"no id"}]`))
		case "/counselors":
			_, _ = w.Write([]byte(`[{"id":"b1","name":"Mia","email":"mia@example.org","role":"supervisor","license_number":"L-1","is_active":true}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	clients, err := client.FetchClients(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Lea", clients[0].Name)
	require.NotNil(t, clients[0].CounselorID)
	assert.Equal(t, "b1", *clients[0].CounselorID)

	counselors, err := client.FetchCounselors(context.Background())
	require.NoError(t, err)
	require.Len(t, counselors, 1)
	assert.Equal(t, models.CounselorRecord{
		ID: "b1", Name: "Mia", Email: "mia@example.org", Role: "supervisor", LicenseNumber: "L-1", IsActive: true,
	}, counselors[0])
}

func TestFetch_EmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	clients, err := client.FetchClients(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, clients)
	assert.Empty(t, clients)
}

func TestFetch_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	token := signedToken(t, map[string]any{"user_id": "u1", "role": "supervisor"})
	session, err := recordstore.NewSession(srv.URL+"/", token)
	require.NoError(t, err)

	_, err = recordstore.New(session).FetchCounselors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, gotAuth)
}

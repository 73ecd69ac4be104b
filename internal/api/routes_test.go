package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"theranova/backend/internal/dataset"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	server, err := NewServer(Config{Dataset: dataset.Default()})
	require.NoError(t, err)
	return server, server.Router()
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	_, router := newTestRouter(t)

	rec := do(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestScoreSuccess(t *testing.T) {
	_, router := newTestRouter(t)

	rec := do(router, http.MethodPost, "/score", `{"molecule":"Metformin","disease":"Alzheimer"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ScoreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Metformin", resp.Molecule)
	assert.Equal(t, "Alzheimer", resp.Disease)
	assert.Equal(t, 1.0, resp.RepurposeScore)
	assert.Equal(t, "High potential - recommend further development", resp.OverallVerdict)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), resp.AnalysisID)
	require.Len(t, resp.Trials, 3)
	assert.Equal(t, TrialDTO{
		RegistryID: "NCT0001",
		Status:     "Completed",
		Phase:      "Phase-3",
		Summary:    "Reduced cognitive decline in small cohort.",
	}, resp.Trials[0])
	require.Len(t, resp.Competitors, 3)
	assert.Equal(t, "Sponsor of NGX-100 for Alzheimer", resp.Competitors[0].Note)
	assert.Len(t, resp.EvidenceHighlights, 5)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestScoreWireShape(t *testing.T) {
	_, router := newTestRouter(t)

	rec := do(router, http.MethodPost, "/score", `{"molecule":"UnknownDrug","disease":"RareDisease"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, key := range []string{"molecule", "disease", "repurposeScore", "overallVerdict", "analysisId", "trials", "competitors", "evidenceHighlights"} {
		assert.Contains(t, raw, key)
	}
	assert.Len(t, raw, 8)
	assert.JSONEq(t, `[]`, string(raw["trials"]))
	assert.JSONEq(t, `0.2`, string(raw["repurposeScore"]))
	assert.JSONEq(t, `"Low potential - deprioritize"`, string(raw["overallVerdict"]))
	assert.JSONEq(t, `["No existing trials found that directly link the molecule and disease."]`, string(raw["evidenceHighlights"]))
}

func TestScoreAnalysisIDsAreUnique(t *testing.T) {
	_, router := newTestRouter(t)
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		rec := do(router, http.MethodPost, "/score", `{"molecule":"Metformin","disease":"Alzheimer"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp ScoreResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, seen[resp.AnalysisID], "duplicate analysis id")
		seen[resp.AnalysisID] = true
	}
}

func TestScoreValidation(t *testing.T) {
	_, router := newTestRouter(t)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty molecule", `{"molecule":"","disease":"X"}`, errMoleculeRequired.Error()},
		{"whitespace molecule", `{"molecule":"   ","disease":"X"}`, errMoleculeRequired.Error()},
		{"missing molecule", `{"disease":"X"}`, errMoleculeRequired.Error()},
		{"missing disease", `{"molecule":"X"}`, errDiseaseRequired.Error()},
		{"whitespace disease", `{"molecule":"X","disease":"\t"}`, errDiseaseRequired.Error()},
		{"null body", `null`, errMoleculeRequired.Error()},
		{"empty body", ``, errBodyRequired.Error()},
		{"non-string molecule", `{"molecule":5,"disease":"X"}`, errMoleculeRequired.Error()},
		{"non-string disease", `{"molecule":"X","disease":["Y"]}`, errDiseaseRequired.Error()},
		{"array body", `[]`, errBodyRequired.Error()},
		{"malformed json", `{"molecule":`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(router, http.MethodPost, "/score", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			if tc.message != "" {
				assert.Equal(t, tc.message, resp.Error)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	_, router := newTestRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodGet, "/score"},
		{http.MethodPost, "/health"},
		{http.MethodDelete, "/score"},
		{http.MethodGet, "/health/"},
		{http.MethodPost, "/score/"},
	} {
		rec := do(router, tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestPreflight(t *testing.T) {
	_, router := newTestRouter(t)

	for _, path := range []string{"/score", "/health", "/anything"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestCrossOriginScore(t *testing.T) {
	_, router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(`{"molecule":"Ivermectin","disease":"COVID-19"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://frontend.example")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "X-Analysis-Id", rec.Header().Get("Access-Control-Expose-Headers"))

	var resp ScoreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, resp.AnalysisID, rec.Header().Get("X-Analysis-Id"))
}

func TestScoreStreamRequiresUpgrade(t *testing.T) {
	_, router := newTestRouter(t)

	rec := do(router, http.MethodGet, "/score/stream", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"websocket upgrade required"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestScoreStreamBadHandshake(t *testing.T) {
	_, router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/score/stream", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

func TestNewServerRequiresDataset(t *testing.T) {
	_, err := NewServer(Config{})
	assert.Error(t, err)
}

func TestScoreStreamPublishesAnalyses(t *testing.T) {
	server, err := NewServer(Config{
		Dataset:       dataset.Default(),
		NewAnalysisID: func() string { return "0123456789abcdef0123456789abcdef" },
	})
	require.NoError(t, err)
	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/score/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return server.Feed().Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(ts.URL+"/score", "application/json", strings.NewReader(`{"molecule":"Ivermectin","disease":"COVID-19"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event AnalysisEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "analysis", event.Type)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", event.AnalysisID)
	assert.Equal(t, "Ivermectin", event.Molecule)
	assert.Equal(t, 0.84, event.RepurposeScore)
	assert.False(t, event.Timestamp.IsZero())

	last := server.Feed().Last()
	require.NotNil(t, last)
	assert.Equal(t, event.AnalysisID, last.AnalysisID)
}

func TestScoreRejectionDoesNotPublish(t *testing.T) {
	server, router := newTestRouter(t)
	rec := do(router, http.MethodPost, "/score", `{"molecule":"","disease":"X"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, server.Feed().Last())
}

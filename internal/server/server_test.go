package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BobbyForshell/time-span-estimator/internal/config"
	"github.com/BobbyForshell/time-span-estimator/internal/i18n"
	"github.com/BobbyForshell/time-span-estimator/internal/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"*"}},
		Session: config.SessionConfig{
			TTL:           time.Hour,
			SweepInterval: time.Hour,
		},
		DefaultLanguage: "en",
	}
	srv := New(cfg, session.NewStore(cfg.Session.TTL), i18n.Default())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func postJSON(t *testing.T, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var payload map[string]string
	resp := getJSON(t, ts.URL+"/health", &payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if payload["status"] != "ok" {
		t.Errorf("payload = %v", payload)
	}
}

func TestLanguagesEndpoint(t *testing.T) {
	ts := newTestServer(t)
	var payload struct {
		Languages []struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"languages"`
		Default string `json:"default"`
	}
	getJSON(t, ts.URL+"/api/languages", &payload)
	if len(payload.Languages) != 2 || payload.Default != "en" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestQuestionsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	var payload struct {
		Language       string `json:"language"`
		TotalQuestions int    `json:"totalQuestions"`
		Questions      []struct {
			Text    string   `json:"text"`
			Options []string `json:"options"`
			Levels  []int    `json:"levels"`
		} `json:"questions"`
	}
	getJSON(t, ts.URL+"/api/questions?lang=sv", &payload)
	if payload.Language != "sv" || payload.TotalQuestions != 12 {
		t.Fatalf("payload = %+v", payload)
	}
	if !strings.HasPrefix(payload.Questions[0].Text, "Du får ett nytt projekt") {
		t.Errorf("first question = %q", payload.Questions[0].Text)
	}
	if len(payload.Questions[0].Options) != len(payload.Questions[0].Levels) {
		t.Error("options and levels diverge")
	}
}

func TestScoreEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var result struct {
		Level      int    `json:"level"`
		Summary    string `json:"summary"`
		Strengths  []any  `json:"strengths"`
		Weaknesses []any  `json:"weaknesses"`
	}
	resp := postJSON(t, ts.URL+"/api/score", map[string]interface{}{
		"answers":  []int{1, 2, 5, 7, 1, 2, 4, 6, 1, 2, 5, 6},
		"purpose":  "self-reflection",
		"language": "en",
	}, &result)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if result.Level != 4 || result.Summary != "Operational systems" {
		t.Errorf("result = %+v", result)
	}
	if len(result.Strengths) != 3 || len(result.Weaknesses) != 3 {
		t.Errorf("result = %+v", result)
	}
}

func TestScoreEndpointRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"partial answers", map[string]interface{}{"answers": []int{1, 2}, "purpose": "self-reflection"}},
		{"unknown purpose", map[string]interface{}{"answers": []int{1, 2, 5, 7, 1, 2, 4, 6, 1, 2, 5, 6}, "purpose": "divination"}},
		{"unoffered level", map[string]interface{}{"answers": []int{2, 2, 5, 7, 1, 2, 4, 6, 1, 2, 5, 6}, "purpose": "recruitment"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/score", tc.body, nil)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

type sessionPayload struct {
	ID              string `json:"id"`
	CurrentQuestion int    `json:"currentQuestion"`
	TotalQuestions  int    `json:"totalQuestions"`
	Complete        bool   `json:"complete"`
}

func TestSessionWizardFlow(t *testing.T) {
	ts := newTestServer(t)

	var sess sessionPayload
	resp := postJSON(t, ts.URL+"/api/sessions", map[string]string{
		"purpose":  "self-reflection",
		"language": "en",
	}, &sess)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	if sess.ID == "" || sess.TotalQuestions != 12 || sess.Complete {
		t.Fatalf("session = %+v", sess)
	}

	base := ts.URL + "/api/sessions/" + sess.ID
	for i := 0; i < 12; i++ {
		resp := postJSON(t, base+"/answers", map[string]int{"optionIndex": 0}, &sess)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("answer %d status = %d", i, resp.StatusCode)
		}
	}
	if !sess.Complete || sess.CurrentQuestion != 12 {
		t.Fatalf("session after answers = %+v", sess)
	}

	// One more answer conflicts.
	resp = postJSON(t, base+"/answers", map[string]int{"optionIndex": 0}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("extra answer status = %d, want 409", resp.StatusCode)
	}

	// Option 0 everywhere answers at the lowest stratum.
	var result struct {
		Level   int    `json:"level"`
		Summary string `json:"summary"`
	}
	resp = getJSON(t, base+"/result", &result)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("result status = %d", resp.StatusCode)
	}
	if result.Level != 1 || result.Summary != "Short-term action" {
		t.Errorf("result = %+v", result)
	}

	t.Run("csv export", func(t *testing.T) {
		resp, err := http.Get(base + "/export?format=csv")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("content-type = %q", ct)
		}
		if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "time_span_assessment_") {
			t.Errorf("content-disposition = %q", cd)
		}
		body := readBody(t, resp)
		if !strings.HasPrefix(body, "Question,Category,Your Answer Level,Selected Option") {
			t.Errorf("csv starts with %q", body[:min(len(body), 80)])
		}
	})

	t.Run("json export", func(t *testing.T) {
		resp, err := http.Get(base + "/export?format=json")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		body := readBody(t, resp)
		if !strings.Contains(body, `"assessment_info"`) || !strings.Contains(body, `"final_stratum_level": 1`) {
			t.Errorf("json export = %s", body)
		}
	})

	t.Run("summary export", func(t *testing.T) {
		resp, err := http.Get(base + "/export?format=summary")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		body := readBody(t, resp)
		if !strings.Contains(body, "# Time Span Assessment Report") {
			t.Errorf("summary export = %s", body)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		resp, err := http.Get(base + "/export?format=xml")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	// Restart clears answers; result then conflicts until redone.
	resp = postJSON(t, base+"/restart", map[string]string{}, &sess)
	if resp.StatusCode != http.StatusOK || sess.CurrentQuestion != 0 {
		t.Fatalf("restart: status %d, session %+v", resp.StatusCode, sess)
	}
	resp = getJSON(t, base+"/result", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("result on restarted session = %d, want 409", resp.StatusCode)
	}
}

func TestSessionEndpointsUnknownID(t *testing.T) {
	ts := newTestServer(t)
	for _, url := range []string{
		ts.URL + "/api/sessions/nope",
		ts.URL + "/api/sessions/nope/result",
		ts.URL + "/api/sessions/nope/export",
	} {
		resp := getJSON(t, url, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", url, resp.StatusCode)
		}
	}
}

func TestResultBeforeCompletionConflicts(t *testing.T) {
	ts := newTestServer(t)
	var sess sessionPayload
	postJSON(t, ts.URL+"/api/sessions", map[string]string{"purpose": "leadership"}, &sess)

	resp := getJSON(t, ts.URL+"/api/sessions/"+sess.ID+"/result", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestCreateSessionRejectsUnknownPurpose(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/sessions", map[string]string{"purpose": "divination"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDeleteSession(t *testing.T) {
	ts := newTestServer(t)
	var sess sessionPayload
	postJSON(t, ts.URL+"/api/sessions", map[string]string{"purpose": "recruitment"}, &sess)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/"+sess.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp = getJSON(t, ts.URL+"/api/sessions/"+sess.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", resp.StatusCode)
	}
}

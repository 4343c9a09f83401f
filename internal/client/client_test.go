package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetSkills(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/skills" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("X-User-ID") != "u1" {
			t.Errorf("expected X-User-ID u1, got %q", r.Header.Get("X-User-ID"))
		}
		fmt.Fprint(w, `{"skills":[{"name":"pdf","source":"global","type":"knowledge","triggers":["pdf"]},{"name":"notes","source":"user","type":"repo"}]}`)
	}))
	defer ts.Close()

	c := New(ts.URL, "u1")
	skills, err := c.GetSkills(context.Background())
	if err != nil {
		t.Fatalf("GetSkills: %v", err)
	}
	if len(skills) != 2 {
		t.Fatalf("got %d skills, want 2", len(skills))
	}
	if skills[0].Name != "pdf" || len(skills[0].Triggers) != 1 {
		t.Errorf("unexpected first skill: %+v", skills[0])
	}
}

func TestGetSettingsNormalizesNil(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"user_id":"u1"}`)
	}))
	defer ts.Close()

	c := New(ts.URL, "u1")
	s, err := c.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if s.DisabledMicroagents == nil {
		t.Fatal("expected non-nil disabled set")
	}
}

func TestUpdateSettingsSendsPatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var patch map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			t.Fatalf("decode patch: %v", err)
		}
		if _, ok := patch["disabled_microagents"]; !ok {
			t.Error("patch missing disabled_microagents")
		}
		fmt.Fprint(w, `{"user_id":"u1","disabled_microagents":["a","b"]}`)
	}))
	defer ts.Close()

	c := New(ts.URL, "u1")
	disabled := []string{"a", "b"}
	s, err := c.UpdateSettings(context.Background(), &SettingsPatch{DisabledMicroagents: &disabled})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if len(s.DisabledMicroagents) != 2 {
		t.Errorf("got %v, want [a b]", s.DisabledMicroagents)
	}
}

func TestRequestErrorCarriesServerMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"skill name must not be empty"}`)
	}))
	defer ts.Close()

	c := New(ts.URL, "u1")
	_, err := c.GetSkills(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("expected RequestError, got %T", err)
	}
	if re.StatusCode != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", re.StatusCode)
	}
	if got := ErrorMessage(err); got != "skill name must not be empty" {
		t.Errorf("got message %q", got)
	}
}

func TestErrorMessageFallback(t *testing.T) {
	if got := ErrorMessage(errors.New("dial tcp: connection refused")); got != GenericErrorMessage {
		t.Errorf("got %q, want generic message", got)
	}

	// A RequestError without an extractable message also falls back.
	if got := ErrorMessage(&RequestError{StatusCode: 502}); got != GenericErrorMessage {
		t.Errorf("got %q, want generic message", got)
	}
}

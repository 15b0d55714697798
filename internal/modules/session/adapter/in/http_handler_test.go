package in_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"attn/internal/modules/session/adapter/in"
	"attn/internal/modules/session/dto"
	apperrors "attn/internal/platform/errors"
	"attn/internal/platform/web"
)

type stubUsecase struct {
	session dto.Session
	err     error
}

func (s *stubUsecase) Start(context.Context) (dto.Session, error) {
	return s.session, s.err
}

func (s *stubUsecase) RecordDistraction(_ context.Context, sessionID string) (dto.Distraction, error) {
	return dto.Distraction{ID: "d1", SessionID: sessionID}, s.err
}

func (s *stubUsecase) End(_ context.Context, sessionID string) (dto.EndOutput, error) {
	if s.err != nil {
		return dto.EndOutput{}, s.err
	}
	out := dto.EndOutput{Session: s.session, Summary: dto.Summary{DurationSeconds: 600}}
	out.ID = sessionID
	return out, nil
}

func (s *stubUsecase) Summary(context.Context, string) (dto.Summary, error) {
	return dto.Summary{DurationSeconds: 600, LongestStreakSeconds: 470}, s.err
}

func (s *stubUsecase) Active(context.Context) (dto.Session, error) {
	return s.session, s.err
}

func serve(t *testing.T, uc *stubUsecase, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	in.NewHTTPHandler(uc).RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestStartCreated(t *testing.T) {
	t.Parallel()
	uc := &stubUsecase{session: dto.Session{ID: "s1", StartedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}}
	rec := serve(t, uc, http.MethodPost, "/sessions")

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d", rec.Code)
	}
	var got dto.Session
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "s1" || got.EndedAt != nil {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestStartConflict(t *testing.T) {
	t.Parallel()
	rec := serve(t, &stubUsecase{err: apperrors.ErrActiveSessionExists}, http.MethodPost, "/sessions")

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body web.ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != web.CodeConflict {
		t.Fatalf("code: got %q", body.Code)
	}
}

func TestActiveNotFound(t *testing.T) {
	t.Parallel()
	rec := serve(t, &stubUsecase{err: apperrors.ErrNoActiveSession}, http.MethodGet, "/sessions/active")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body web.ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != web.CodeNotFound {
		t.Fatalf("code: got %q", body.Code)
	}
}

func TestDistractionAfterEndMapsToInvalidState(t *testing.T) {
	t.Parallel()
	rec := serve(t, &stubUsecase{err: apperrors.ErrSessionEnded}, http.MethodPost, "/sessions/s1/distractions")

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body web.ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != web.CodeInvalidState {
		t.Fatalf("code: got %q", body.Code)
	}
}

func TestEndReturnsSessionWithSummary(t *testing.T) {
	t.Parallel()
	rec := serve(t, &stubUsecase{}, http.MethodPatch, "/sessions/s1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var got dto.EndOutput
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "s1" || got.Summary.DurationSeconds != 600 {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestSummaryOfUnknownSession(t *testing.T) {
	t.Parallel()
	rec := serve(t, &stubUsecase{err: apperrors.ErrSessionNotFound}, http.MethodGet, "/sessions/ghost/summary")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", rec.Code)
	}
}

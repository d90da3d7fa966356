package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-access-api/internal/dto"
	"github.com/noah-isme/campus-access-api/internal/handler"
	"github.com/noah-isme/campus-access-api/internal/service"
)

type stubSessionService struct {
	response dto.SessionResponse
	err      error
	lastID   uint
}

func (s *stubSessionService) List(_ context.Context) ([]dto.SessionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []dto.SessionResponse{s.response}, nil
}

func (s *stubSessionService) Get(_ context.Context, id uint) (dto.SessionResponse, error) {
	s.lastID = id
	return s.response, s.err
}

func (s *stubSessionService) Create(_ context.Context, _ dto.SessionCreateRequest) (dto.SessionResponse, error) {
	return s.response, s.err
}

func (s *stubSessionService) Update(_ context.Context, id uint, _ dto.SessionUpdateRequest) (dto.SessionResponse, error) {
	s.lastID = id
	return s.response, s.err
}

func (s *stubSessionService) Delete(_ context.Context, id uint) error {
	s.lastID = id
	return s.err
}

var _ service.SessionService = (*stubSessionService)(nil)

func newSessionApp(svc service.SessionService) *fiber.App {
	app := fiber.New()
	handler.NewSessionHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/sessions"))
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	var payload envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func TestSessionHandlerCreate(t *testing.T) {
	svc := &stubSessionService{response: dto.SessionResponse{ID: 5, SessionName: "2026/2027", Amount: 2_000_000}}
	app := newSessionApp(svc)

	body, err := json.Marshal(dto.SessionCreateRequest{SessionName: "2026/2027", StartDate: "2026-09-10", EndDate: "2027-06-30", Amount: 2_000_000})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	payload := decodeEnvelope(t, resp)
	require.True(t, payload.Success)
	require.Equal(t, "session created", payload.Message)

	var created dto.SessionResponse
	require.NoError(t, json.Unmarshal(payload.Data, &created))
	require.Equal(t, uint(5), created.ID)
}

func TestSessionHandlerValidationFailure(t *testing.T) {
	svc := &stubSessionService{err: service.ValidationError{Message: "start date cannot be in the past"}}
	app := newSessionApp(svc)

	body := []byte(`{"session_name":"2026/2027","start_date":"2020-01-01","end_date":"2027-06-30","amount":100}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	payload := decodeEnvelope(t, resp)
	require.False(t, payload.Success)
	require.Equal(t, "start date cannot be in the past", payload.Message)
}

func TestSessionHandlerUpdateConflict(t *testing.T) {
	svc := &stubSessionService{err: service.ErrSessionConflict}
	app := newSessionApp(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/sessions/3", bytes.NewReader([]byte(`{"amount":500}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	require.Equal(t, uint(3), svc.lastID)
}

func TestSessionHandlerGetNotFound(t *testing.T) {
	svc := &stubSessionService{err: service.ErrSessionNotFound}
	app := newSessionApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/99", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSessionHandlerRejectsBadID(t *testing.T) {
	svc := &stubSessionService{}
	app := newSessionApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/abc", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

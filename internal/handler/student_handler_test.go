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
	"github.com/noah-isme/campus-access-api/internal/models"
	"github.com/noah-isme/campus-access-api/internal/repository"
	"github.com/noah-isme/campus-access-api/internal/service"
)

type stubStudentService struct {
	response    dto.StudentResponse
	listPayload dto.StudentListResponse
	err         error
	lastID      uint
	lastFilter  repository.StudentFilter
	lastSponsor dto.StudentSponsorUpdateRequest
}

func (s *stubStudentService) List(_ context.Context, filter repository.StudentFilter) (dto.StudentListResponse, error) {
	s.lastFilter = filter
	return s.listPayload, s.err
}

func (s *stubStudentService) ListRegistered(_ context.Context) ([]dto.StudentResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.listPayload.Students, nil
}

func (s *stubStudentService) Get(_ context.Context, id uint) (dto.StudentResponse, error) {
	s.lastID = id
	return s.response, s.err
}

func (s *stubStudentService) Create(_ context.Context, _ dto.StudentCreateRequest) (dto.StudentResponse, error) {
	return s.response, s.err
}

func (s *stubStudentService) Update(_ context.Context, id uint, _ dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	s.lastID = id
	return s.response, s.err
}

func (s *stubStudentService) UpdateSponsor(_ context.Context, payload dto.StudentSponsorUpdateRequest) (dto.StudentResponse, error) {
	s.lastSponsor = payload
	return s.response, s.err
}

func (s *stubStudentService) Delete(_ context.Context, id uint) error {
	s.lastID = id
	return s.err
}

var _ service.StudentService = (*stubStudentService)(nil)

type stubStatsService struct {
	stats dto.ClassStatsResponse
	err   error
}

func (s *stubStatsService) ClassRegistrationStats(_ context.Context) (dto.ClassStatsResponse, error) {
	return s.stats, s.err
}

var _ service.StatsService = (*stubStatsService)(nil)

func newStudentApp(svc service.StudentService, stats service.StatsService) *fiber.App {
	app := fiber.New()
	handler.NewStudentHandler(svc, stats, zerolog.Nop()).Register(app.Group("/api/v1/students"))
	return app
}

func TestStudentHandlerListPassesFilter(t *testing.T) {
	svc := &stubStudentService{listPayload: dto.StudentListResponse{
		Students:    []dto.StudentResponse{{ID: 1, FirstName: "Amina"}},
		Total:       1,
		TotalPages:  1,
		CurrentPage: 1,
	}}
	app := newStudentApp(svc, &stubStatsService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students?name=amina&reg_no=SE%2F26%2F1&page=1&limit=20", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, repository.StudentFilter{Name: "amina", RegNo: "SE/26/1", Page: 1, PageSize: 20}, svc.lastFilter)

	payload := decodeEnvelope(t, resp)
	require.Equal(t, "students retrieved", payload.Message)
}

func TestStudentHandlerCreate(t *testing.T) {
	svc := &stubStudentService{response: dto.StudentResponse{ID: 4, FirstName: "Amina", Status: models.RegistrationStatusRegistered}}
	app := newStudentApp(svc, &stubStatsService{})

	body := []byte(`{"first_name":"Amina","last_name":"Okello","class_id":1,"sponsor_id":1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/students", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	payload := decodeEnvelope(t, resp)
	require.True(t, payload.Success)
	require.Equal(t, "student created", payload.Message)
}

func TestStudentHandlerGetNotFound(t *testing.T) {
	svc := &stubStudentService{err: service.ErrStudentNotFound}
	app := newStudentApp(svc, &stubStatsService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/42", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.Equal(t, uint(42), svc.lastID)
}

func TestStudentHandlerUpdateSponsor(t *testing.T) {
	svc := &stubStudentService{response: dto.StudentResponse{ID: 4, SponsorID: 2}}
	app := newStudentApp(svc, &stubStatsService{})

	body, err := json.Marshal(dto.StudentSponsorUpdateRequest{StudentID: 4, SponsorID: 2})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/students/sponsor", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, dto.StudentSponsorUpdateRequest{StudentID: 4, SponsorID: 2}, svc.lastSponsor)

	payload := decodeEnvelope(t, resp)
	require.Equal(t, "sponsor updated successfully", payload.Message)
}

func TestStudentHandlerClassStats(t *testing.T) {
	stats := &stubStatsService{stats: dto.ClassStatsResponse{
		Registered:    map[string]int64{"SE": 3},
		Unregistered:  map[string]int64{"SE": 1},
		ClassInitials: []string{"SE"},
	}}
	app := newStudentApp(&stubStudentService{}, stats)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/stats", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload := decodeEnvelope(t, resp)
	require.Equal(t, "class registration stats retrieved", payload.Message)

	var got dto.ClassStatsResponse
	require.NoError(t, json.Unmarshal(payload.Data, &got))
	require.Equal(t, int64(3), got.Registered["SE"])
}

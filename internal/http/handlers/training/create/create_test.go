package create

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-tracker/internal/access"
	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
	"github.com/magabrotheeeer/gym-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.DummyTraining) (*models.Training, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Training), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	owner := access.Principal{UserID: 3, Role: models.RoleUser}
	admin := access.Principal{UserID: 1, Role: models.RoleAdmin}
	req := models.DummyTraining{UserID: 3, CategoryID: 2, Date: "2024-03-05", TrainingDuration: 30}
	saved := &models.Training{
		ID:               10,
		UserID:           3,
		CategoryID:       2,
		Date:             models.NewDate(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)),
		TrainingDuration: 30,
	}

	tests := []struct {
		name           string
		body           string
		principal      *access.Principal
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "пользователь записывает свою тренировку",
			body:      `{"user_id":3,"category_id":2,"date":"2024-03-05","training_duration":30}`,
			principal: &owner,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, req).Return(saved, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"status":"OK","data":{"training_id":10,"user_id":3,"category_id":2,"date":"2024-03-05","training_duration":30}}`,
		},
		{
			name:      "администратор записывает тренировку другому пользователю",
			body:      `{"user_id":3,"category_id":2,"date":"2024-03-05","training_duration":30}`,
			principal: &admin,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, req).Return(saved, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"status":"OK","data":{"training_id":10,"user_id":3,"category_id":2,"date":"2024-03-05","training_duration":30}}`,
		},
		{
			name:           "чужая тренировка запрещена",
			body:           `{"user_id":4,"category_id":2,"date":"2024-03-05","training_duration":30}`,
			principal:      &owner,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"not enough permissions"}`,
		},
		{
			name:           "нулевая длительность",
			body:           `{"user_id":3,"category_id":2,"date":"2024-03-05","training_duration":0}`,
			principal:      &owner,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field training_duration is a required field"}`,
		},
		{
			name:           "длительность больше INTEGER",
			body:           `{"user_id":3,"category_id":2,"date":"2024-03-05","training_duration":2147483648}`,
			principal:      &owner,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field training_duration must be less than or equal to 2147483647"}`,
		},
		{
			name:           "неверный формат даты",
			body:           `{"user_id":3,"category_id":2,"date":"05.03.2024","training_duration":30}`,
			principal:      &owner,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field date can contain only date in format 2006-01-02"}`,
		},
		{
			name:           "без токена",
			body:           `{"user_id":3,"category_id":2,"date":"2024-03-05","training_duration":30}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:      "категория не найдена",
			body:      `{"user_id":3,"category_id":2,"date":"2024-03-05","training_duration":30}`,
			principal: &owner,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, req).Return(nil, apperr.NotFound("category"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"category not found"}`,
		},
		{
			name:      "сбой хранилища",
			body:      `{"user_id":3,"category_id":2,"date":"2024-03-05","training_duration":30}`,
			principal: &owner,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, req).
					Return(nil, apperr.Persistence("storage.CreateTraining", errors.New("deadlock detected")))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockService)
			tt.setupMock(mockSvc)

			r := httptest.NewRequest(http.MethodPost, "/api/v1/trainings", bytes.NewBufferString(tt.body))
			if tt.principal != nil {
				r = r.WithContext(middlewarectx.WithPrincipal(r.Context(), *tt.principal))
			}
			rr := httptest.NewRecorder()

			New(sl.Discard(), mockSvc).ServeHTTP(rr, r)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			mockSvc.AssertExpectations(t)
		})
	}
}

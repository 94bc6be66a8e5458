package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// MockService реализует интерфейс search.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Search(ctx context.Context, filter models.UserSearchFilter) ([]models.UserSearchResult, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).([]models.UserSearchResult)
	return res, args.Error(1)
}

func TestSearchHandler(t *testing.T) {
	t.Run("фильтры передаются в сервис", func(t *testing.T) {
		mockSvc := new(MockService)
		mockSvc.On("Search", mock.Anything, models.UserSearchFilter{
			Search:           "ann",
			SubscriptionType: models.SubscriptionVIP,
			Role:             models.RoleUser,
		}).Return([]models.UserSearchResult{{
			UserFullName:     "Anna Petrova",
			SubscriptionType: models.SubscriptionVIP,
			Role:             models.RoleUser,
		}}, nil)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/search?search=ann&subscription_type=vip&role=user", nil)
		New(sl.Discard(), mockSvc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t,
			`{"status":"OK","data":[{"user_full_name":"Anna Petrova","subscription_type":"vip","role":"user"}]}`,
			rr.Body.String())
		mockSvc.AssertExpectations(t)
	})

	t.Run("неизвестный тариф", func(t *testing.T) {
		mockSvc := new(MockService)
		mockSvc.On("Search", mock.Anything, mock.Anything).
			Return(nil, apperr.Validation("unknown subscription type %q", "gold"))

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/search?subscription_type=gold", nil)
		New(sl.Discard(), mockSvc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), `unknown subscription type`)
	})
}

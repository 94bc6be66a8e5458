package training

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateTraining(ctx context.Context, training models.Training) (*models.Training, error) {
	args := m.Called(ctx, training)
	if res := args.Get(0); res != nil {
		return res.(*models.Training), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetTraining(ctx context.Context, id int64) (*models.Training, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Training), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestService_Create(t *testing.T) {
	date, err := models.ParseDate("2024-03-05")
	require.NoError(t, err)
	input := models.Training{UserID: 1, CategoryID: 2, Date: date, TrainingDuration: 30}

	tests := []struct {
		name       string
		req        models.DummyTraining
		setupMock  func(*MockRepository)
		want       *models.Training
		wantErr    error
		wantEntity string
	}{
		{
			name: "успешное создание",
			req:  models.DummyTraining{UserID: 1, CategoryID: 2, Date: "2024-03-05", TrainingDuration: 30},
			setupMock: func(m *MockRepository) {
				created := input
				created.ID = 10
				m.On("CreateTraining", mock.Anything, input).Return(&created, nil).Once()
			},
			want: &models.Training{ID: 10, UserID: 1, CategoryID: 2, Date: date, TrainingDuration: 30},
		},
		{
			name:      "нулевая длительность",
			req:       models.DummyTraining{UserID: 1, CategoryID: 2, Date: "2024-03-05", TrainingDuration: 0},
			setupMock: func(_ *MockRepository) {},
			wantErr:   apperr.ErrValidation,
		},
		{
			name:      "длительность не помещается в INTEGER",
			req:       models.DummyTraining{UserID: 1, CategoryID: 2, Date: "2024-03-05", TrainingDuration: models.MaxTrainingDuration + 1},
			setupMock: func(_ *MockRepository) {},
			wantErr:   apperr.ErrValidation,
		},
		{
			name:      "некорректная дата",
			req:       models.DummyTraining{UserID: 1, CategoryID: 2, Date: "05.03.2024", TrainingDuration: 30},
			setupMock: func(_ *MockRepository) {},
			wantErr:   apperr.ErrValidation,
		},
		{
			name: "пользователь не найден",
			req:  models.DummyTraining{UserID: 1, CategoryID: 2, Date: "2024-03-05", TrainingDuration: 30},
			setupMock: func(m *MockRepository) {
				m.On("CreateTraining", mock.Anything, input).Return(nil, apperr.NotFound("user")).Once()
			},
			wantErr:    apperr.ErrNotFound,
			wantEntity: "user",
		},
		{
			name: "ошибка хранилища",
			req:  models.DummyTraining{UserID: 1, CategoryID: 2, Date: "2024-03-05", TrainingDuration: 30},
			setupMock: func(m *MockRepository) {
				m.On("CreateTraining", mock.Anything, input).
					Return(nil, apperr.Persistence("storage.CreateTraining", errors.New("tx aborted"))).Once()
			},
			wantErr: apperr.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMock(repo)
			svc := New(repo, sl.Discard())

			got, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantEntity, apperr.Entity(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Get(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetTraining", mock.Anything, int64(4)).Return(nil, apperr.NotFound("training")).Once()
	svc := New(repo, sl.Discard())

	_, err := svc.Get(context.Background(), 4)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

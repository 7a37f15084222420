package flights

import (
	"context"
	"testing"
	"time"

	"github.com/hznasser/falconair/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Search(ctx context.Context, departure, arrival string, date *time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, departure, arrival, date)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

// fakeCache keys entries the same way the Redis cache does.
type fakeCache struct {
	entries map[string][]domain.Flight
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]domain.Flight)}
}

func (f *fakeCache) GetFlights(ctx context.Context, departure, arrival, date string) ([]domain.Flight, error) {
	return f.entries[departure+arrival+date], nil
}

func (f *fakeCache) SetFlights(ctx context.Context, departure, arrival, date string, flights []domain.Flight) error {
	f.entries[departure+arrival+date] = flights
	return nil
}

func TestSearch_CachesResult(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := newFakeCache()
	service := NewFlightService(repo, cache, zap.NewNop())

	flights := []domain.Flight{{ID: 7, FlightNumber: "FA104"}}
	repo.On("Search", mock.Anything, "BAH", "LHR", (*time.Time)(nil)).Return(flights, nil).Once()

	first, err := service.Search(context.Background(), "BAH", "LHR", nil)
	assert.NoError(t, err)
	assert.Len(t, first, 1)

	// Second call must come from the cache; the repo mock would fail on a
	// second Search call.
	second, err := service.Search(context.Background(), "BAH", "LHR", nil)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	repo.AssertExpectations(t)
}

func TestSearch_DateChangesCacheKey(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := newFakeCache()
	service := NewFlightService(repo, cache, zap.NewNop())

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	repo.On("Search", mock.Anything, "BAH", "LHR", (*time.Time)(nil)).Return([]domain.Flight{{ID: 1}}, nil).Once()
	repo.On("Search", mock.Anything, "BAH", "LHR", &day).Return([]domain.Flight{{ID: 2}}, nil).Once()

	undated, err := service.Search(context.Background(), "BAH", "LHR", nil)
	assert.NoError(t, err)
	dated, err := service.Search(context.Background(), "BAH", "LHR", &day)
	assert.NoError(t, err)

	assert.NotEqual(t, undated[0].ID, dated[0].ID)
	repo.AssertExpectations(t)
}

func TestSearch_NilCache(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil, zap.NewNop())

	repo.On("Search", mock.Anything, "BAH", "LHR", (*time.Time)(nil)).Return([]domain.Flight{}, nil)

	_, err := service.Search(context.Background(), "BAH", "LHR", nil)
	assert.NoError(t, err)
}

func TestGetByID(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, newFakeCache(), zap.NewNop())

	repo.On("GetByID", mock.Anything, int64(7)).Return(&domain.Flight{ID: 7}, nil)

	flight, err := service.GetByID(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), flight.ID)
}

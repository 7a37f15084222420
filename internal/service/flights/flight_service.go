package flights

import (
	"context"
	"time"

	"github.com/hznasser/falconair/internal/domain"
	"github.com/hznasser/falconair/internal/repository"
	"go.uber.org/zap"
)

type FlightUseCase interface {
	Search(ctx context.Context, departure, arrival string, date *time.Time) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

// Cache is the read-through cache for route searches. The TTL is short so
// seat counts do not go stale for long after bookings mutate them.
type Cache interface {
	GetFlights(ctx context.Context, departure, arrival, date string) ([]domain.Flight, error)
	SetFlights(ctx context.Context, departure, arrival, date string, flights []domain.Flight) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
	log   *zap.Logger
}

func NewFlightService(repo repository.FlightRepository, cache Cache, log *zap.Logger) *FlightService {
	return &FlightService{repo: repo, cache: cache, log: log}
}

func (s *FlightService) Search(ctx context.Context, departure, arrival string, date *time.Time) ([]domain.Flight, error) {
	dateKey := "any"
	if date != nil {
		dateKey = date.Format("2006-01-02")
	}

	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx, departure, arrival, dateKey); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.Search(ctx, departure, arrival, date)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, departure, arrival, dateKey, flights); err != nil {
			s.log.Warn("failed to cache flight search", zap.Error(err))
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

var _ FlightUseCase = (*FlightService)(nil)

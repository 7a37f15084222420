package loyalty

import (
	"context"
	"math"
	"time"

	"github.com/hznasser/falconair/config"
	"github.com/hznasser/falconair/internal/domain"
	"github.com/hznasser/falconair/internal/kafka"
	"github.com/hznasser/falconair/internal/repository"
	"go.uber.org/zap"
)

type LoyaltyUseCase interface {
	CheckIn(ctx context.Context, userID string, bookingID int64) (*CheckInResult, error)
	Status(ctx context.Context, userID string) (*domain.LoyaltyAccount, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// CheckInResult is what a successful check-in returns to the client: the
// updated booking, the transient reward computation, the upgrade decision
// and the resulting account snapshot.
type CheckInResult struct {
	Booking     *domain.Booking          `json:"booking"`
	Rewards     domain.RewardComputation `json:"loyalty_rewards"`
	TierUpgrade domain.TierUpgrade       `json:"tier_upgrade"`
	Account     *domain.LoyaltyAccount   `json:"loyalty_account"`
}

// checkInWindowHours bounds how far before departure check-in opens.
const checkInWindowHours = 24.0

type LoyaltyService struct {
	bookings repository.BookingRepository
	flights  repository.FlightRepository
	accounts repository.LoyaltyRepository
	rewards  config.RewardsConfig
	producer Producer
	log      *zap.Logger
	topic    string
	now      func() time.Time
}

type LoyaltyServiceOption func(*LoyaltyService)

func WithClock(now func() time.Time) LoyaltyServiceOption {
	return func(s *LoyaltyService) {
		s.now = now
	}
}

func WithEventsTopic(topic string) LoyaltyServiceOption {
	return func(s *LoyaltyService) {
		s.topic = topic
	}
}

func NewLoyaltyService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	accounts repository.LoyaltyRepository,
	rewards config.RewardsConfig,
	producer Producer,
	log *zap.Logger,
	opts ...LoyaltyServiceOption,
) *LoyaltyService {
	service := &LoyaltyService{
		bookings: bookings,
		flights:  flights,
		accounts: accounts,
		rewards:  rewards,
		producer: producer,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *LoyaltyService) CheckIn(ctx context.Context, userID string, bookingID int64) (*CheckInResult, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, domain.ErrForbidden
	}
	switch booking.Status {
	case domain.BookingStatusCheckedIn:
		return nil, domain.ErrAlreadyCheckedIn
	case domain.BookingStatusCancelled:
		return nil, domain.ErrAlreadyCancelled
	}

	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		return nil, err
	}

	hours := flight.DepartureTime.Sub(s.now()).Hours()
	if hours <= 0 {
		return nil, domain.ErrFlightDeparted
	}
	if hours > checkInWindowHours {
		return nil, domain.ErrCheckInNotOpen
	}

	account, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	seatMult := s.rewards.SeatClassMilesMultiplier(string(booking.SeatClass))
	tierMult := s.rewards.TierMilesMultiplier(string(account.Tier))
	miles := int64(math.Round(flight.DistanceMiles * seatMult * tierMult))
	points := int64(math.Round(flight.DistanceMiles * s.rewards.PointsRate() * s.rewards.SeatClassPointsMultiplier(string(booking.SeatClass))))

	// The status flip and the account credit commit together; the repository
	// resolves concurrent check-ins so only one caller earns the reward.
	updatedBooking, updatedAccount, err := s.accounts.ApplyCheckIn(ctx, bookingID, userID, miles, points)
	if err != nil {
		return nil, err
	}

	oldTier := account.Tier
	upgrade := domain.TierUpgrade{}
	if domain.TierAbove(updatedAccount.Tier, oldTier) {
		upgrade.Upgraded = true
		upgrade.OldTier = oldTier
		upgrade.NewTier = updatedAccount.Tier
	} else if next, ok := domain.NextTierThreshold(updatedAccount.Tier); ok {
		upgrade.NextTierThreshold = &next
	}

	result := &CheckInResult{
		Booking: updatedBooking,
		Rewards: domain.RewardComputation{
			MilesEarned:         miles,
			PointsEarned:        points,
			FlightDistance:      flight.DistanceMiles,
			SeatClassMultiplier: seatMult,
			TierMultiplier:      tierMult,
			TotalMiles:          updatedAccount.Miles,
			TotalPoints:         updatedAccount.Points,
		},
		TierUpgrade: upgrade,
		Account:     updatedAccount,
	}

	s.publish(ctx, updatedBooking, result.Rewards)
	return result, nil
}

func (s *LoyaltyService) Status(ctx context.Context, userID string) (*domain.LoyaltyAccount, error) {
	return s.accounts.GetByUserID(ctx, userID)
}

func (s *LoyaltyService) publish(ctx context.Context, booking *domain.Booking, rewards domain.RewardComputation) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:             kafka.EventBookingCheckedIn,
		BookingID:        booking.ID,
		BookingReference: booking.BookingReference,
		FlightID:         booking.FlightID,
		PassengerName:    booking.PassengerName,
		PassengerEmail:   booking.PassengerEmail,
		SeatClass:        string(booking.SeatClass),
		SeatNumber:       booking.SeatNumber,
		Status:           string(booking.Status),
		MilesEarned:      rewards.MilesEarned,
		PointsEarned:     rewards.PointsEarned,
		OccurredAt:       s.now(),
	}
	if err := s.producer.Publish(ctx, s.topic, booking.BookingReference, event); err != nil {
		s.log.Warn("failed to publish check-in event", zap.Error(err))
	}
}

var _ LoyaltyUseCase = (*LoyaltyService)(nil)

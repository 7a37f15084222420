package domain

import "time"

type Tier string

const (
	TierBlue     Tier = "BLUE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

// tierThresholds is the single source of truth for tier boundaries, shared
// by the rewards engine and the loyalty status endpoint.
var tierThresholds = []struct {
	Tier   Tier
	Points int64
}{
	{TierBlue, 0},
	{TierSilver, 500},
	{TierGold, 1000},
	{TierPlatinum, 2000},
}

// TierFor returns the highest tier whose threshold does not exceed points.
func TierFor(points int64) Tier {
	tier := TierBlue
	for _, t := range tierThresholds {
		if points >= t.Points {
			tier = t.Tier
		}
	}
	return tier
}

// NextTierThreshold returns the points needed for the tier above the given
// one. ok is false at PLATINUM.
func NextTierThreshold(tier Tier) (int64, bool) {
	for i, t := range tierThresholds {
		if t.Tier == tier && i+1 < len(tierThresholds) {
			return tierThresholds[i+1].Points, true
		}
	}
	return 0, false
}

// tierRank orders tiers so upgrades can be detected without comparing
// threshold values at call sites.
func tierRank(tier Tier) int {
	for i, t := range tierThresholds {
		if t.Tier == tier {
			return i
		}
	}
	return 0
}

// TierAbove reports whether a ranks strictly higher than b.
func TierAbove(a, b Tier) bool {
	return tierRank(a) > tierRank(b)
}

type LoyaltyAccount struct {
	UserID           string    `json:"-"`
	MembershipNumber string    `json:"membership_number"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Miles            int64     `json:"loyalty_miles"`
	Points           int64     `json:"loyalty_points"`
	Tier             Tier      `json:"loyalty_tier"`
	UpdatedAt        time.Time `json:"-"`
}

// RewardComputation is the transient result of one check-in. It is returned
// to the client and never persisted.
type RewardComputation struct {
	MilesEarned         int64   `json:"miles_earned"`
	PointsEarned        int64   `json:"points_earned"`
	FlightDistance      float64 `json:"flight_distance"`
	SeatClassMultiplier float64 `json:"seat_class_multiplier"`
	TierMultiplier      float64 `json:"tier_multiplier"`
	TotalMiles          int64   `json:"total_miles"`
	TotalPoints         int64   `json:"total_points"`
}

type TierUpgrade struct {
	Upgraded          bool   `json:"upgraded"`
	OldTier           Tier   `json:"old_tier,omitempty"`
	NewTier           Tier   `json:"new_tier,omitempty"`
	NextTierThreshold *int64 `json:"next_tier_threshold,omitempty"`
}

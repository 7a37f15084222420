package auth

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hznasser/falconair/config"
	"github.com/hznasser/falconair/internal/domain"
	"github.com/hznasser/falconair/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (string, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
	// Authenticate validates a bearer token and returns the user id it was
	// issued for.
	Authenticate(ctx context.Context, token string) (string, error)
}

// TokenStore holds revoked tokens until their natural expiry.
type TokenStore interface {
	DenyToken(ctx context.Context, token string, ttl time.Duration) error
	IsTokenDenied(ctx context.Context, token string) (bool, error)
}

type RegisterInput struct {
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Password    string `json:"password"`
}

type LoginInput struct {
	FalconFlyerNumber string `json:"falcon_flyer_number,omitempty"`
	Email             string `json:"email,omitempty"`
	Password          string `json:"password"`
}

type AuthService struct {
	users  repository.UserRepository
	tokens TokenStore
	cfg    config.AuthConfig
	log    *zap.Logger
	now    func() time.Time
}

type AuthServiceOption func(*AuthService)

func WithClock(now func() time.Time) AuthServiceOption {
	return func(s *AuthService) {
		s.now = now
	}
}

func NewAuthService(users repository.UserRepository, tokens TokenStore, cfg config.AuthConfig, log *zap.Logger, opts ...AuthServiceOption) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	service := &AuthService{users: users, tokens: tokens, cfg: cfg, log: log, now: time.Now}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLen = 8

func validateRegister(input RegisterInput) error {
	if input.Username == "" {
		return domain.NewValidationError("username", "is required")
	}
	if input.FirstName == "" {
		return domain.NewValidationError("first_name", "is required")
	}
	if input.LastName == "" {
		return domain.NewValidationError("last_name", "is required")
	}
	if !emailPattern.MatchString(input.Email) {
		return domain.NewValidationError("email", "must be a valid email address")
	}
	if len(input.Password) < minPasswordLen {
		return domain.NewValidationError("password", "must be at least 8 characters")
	}
	return nil
}

func newMembershipNumber() string {
	return fmt.Sprintf("FF%08d", uuid.New().ID()%100000000)
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := validateRegister(input); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:               uuid.NewString(),
		Username:         input.Username,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Email:            input.Email,
		PhoneNumber:      input.PhoneNumber,
		MembershipNumber: newMembershipNumber(),
		PasswordHash:     string(hash),
	}
	account := &domain.LoyaltyAccount{
		UserID:           user.ID,
		MembershipNumber: user.MembershipNumber,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Tier:             domain.TierBlue,
	}

	if err := s.users.Create(ctx, user, account); err != nil {
		return nil, err
	}

	s.log.Info("registered user", zap.String("membership_number", user.MembershipNumber))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, error) {
	if input.Password == "" {
		return "", domain.NewValidationError("password", "is required")
	}

	var (
		user *domain.User
		err  error
	)
	switch {
	case input.FalconFlyerNumber != "":
		user, err = s.users.GetByMembershipNumber(ctx, input.FalconFlyerNumber)
	case input.Email != "":
		user, err = s.users.GetByEmail(ctx, input.Email)
	default:
		return "", domain.NewValidationError("email", "email or falcon_flyer_number is required")
	}
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(s.cfg.TokenTTL())),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		// Logout is best-effort: an already-invalid token has nothing to revoke.
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if s.tokens == nil {
		return nil
	}
	return s.tokens.DenyToken(ctx, token, ttl)
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	if s.tokens != nil {
		denied, err := s.tokens.IsTokenDenied(ctx, token)
		if err != nil {
			s.log.Warn("token denylist check failed", zap.Error(err))
		} else if denied {
			return "", domain.ErrUnauthorized
		}
	}

	claims, err := s.parse(token)
	if err != nil {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}

func (s *AuthService) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

var _ AuthUseCase = (*AuthService)(nil)

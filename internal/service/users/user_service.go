package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mzhirov/flightbook/internal/domain"
	"github.com/mzhirov/flightbook/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserUseCase interface {
	Register(ctx context.Context, input Credentials) (*domain.User, error)
	Login(ctx context.Context, input Credentials) (string, *domain.User, error)
	UserByToken(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}

// Sessions is the token store behind login. Tokens expire server-side;
// SessionUserID returns 0 for unknown or expired tokens.
type Sessions interface {
	CreateSession(ctx context.Context, token string, userID int64, ttl time.Duration) error
	SessionUserID(ctx context.Context, token string) (int64, error)
	DeleteSession(ctx context.Context, token string) error
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type UserService struct {
	users      repository.UserRepository
	sessions   Sessions
	sessionTTL time.Duration
	bcryptCost int
	validate   *validator.Validate
	log        *zap.Logger
}

func NewUserService(users repository.UserRepository, sessions Sessions, sessionTTL time.Duration, bcryptCost int, log *zap.Logger) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
		validate:   validator.New(),
		log:        log,
	}
}

func (s *UserService) Register(ctx context.Context, input Credentials) (*domain.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and mints a session token. Unknown emails and
// wrong passwords are not distinguished in the returned error.
func (s *UserService) Login(ctx context.Context, input Credentials) (string, *domain.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || input.Password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrUnauthenticated
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", nil, domain.ErrUnauthenticated
	}

	token := uuid.NewString()
	if err := s.sessions.CreateSession(ctx, token, user.ID, s.sessionTTL); err != nil {
		return "", nil, err
	}

	s.log.Info("user logged in", zap.Int64("user_id", user.ID))
	return token, user, nil
}

func (s *UserService) UserByToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	userID, err := s.sessions.SessionUserID(ctx, token)
	if err != nil {
		return nil, err
	}
	if userID == 0 {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, token)
}

var _ UserUseCase = (*UserService)(nil)

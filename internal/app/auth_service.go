package app

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"doctalkie/internal/model"
	"doctalkie/internal/pkg/jwtutil"
)

type AuthService struct {
	users         UserStore
	subscriptions SubscriptionStore
	jwtSecret     string
	jwtExpiration time.Duration
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// Profile is the dashboard view of an account: usage counters and plan
// limits.
type Profile struct {
	User         *model.User
	Subscription *model.Subscription
}

func NewAuthService(users UserStore, subscriptions SubscriptionStore, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		users:         users,
		subscriptions: subscriptions,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)
	if _, err := mail.ParseAddress(email); err != nil || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, persistenceError("load user", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Email:        email,
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: string(hash),
	}
	if err := s.users.CreateWithSubscription(ctx, user, model.PlanFree); err != nil {
		return nil, persistenceError("create user", err)
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, persistenceError("load user", err)
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}
	return s.issue(user)
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*Profile, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, persistenceError("load user", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	sub, err := s.subscriptions.GetByUserID(ctx, userID)
	if err != nil {
		return nil, persistenceError("load subscription", err)
	}
	if sub == nil {
		free := model.NewSubscription(userID, model.PlanFree)
		sub = &free
	}
	return &Profile{User: user, Subscription: sub}, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: time.Now().Add(s.jwtExpiration), User: user}, nil
}

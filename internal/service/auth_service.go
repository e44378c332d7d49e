package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"project-hub/internal/authz"
	"project-hub/internal/model"
	"project-hub/internal/repository"
)

type TokenIssuer interface {
	GenerateToken(user *model.User) (string, error)
	ValidateToken(token string) (model.Identity, error)
}

type AuthService interface {
	RegisterUser(ctx context.Context, email, password, name string) (*model.User, string, error)
	LoginUser(ctx context.Context, email, password string) (*model.User, string, error)
	ResolveIdentity(token string) (model.Identity, error)
	GetUserProfile(ctx context.Context, identity model.Identity) (*model.User, error)
	ListUsers(ctx context.Context, identity model.Identity) ([]model.User, error)
	PromoteUser(ctx context.Context, email string) error
}

type AuthOption func(*authService)

// WithBcryptCost overrides bcrypt.DefaultCost, mostly so tests stay fast.
func WithBcryptCost(cost int) AuthOption {
	return func(s *authService) {
		s.bcryptCost = cost
	}
}

type authService struct {
	userRepo   repository.UserRepository
	issuer     TokenIssuer
	authorizer authz.Authorizer
	bcryptCost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(userRepo repository.UserRepository, issuer TokenIssuer, authorizer authz.Authorizer, opts ...AuthOption) AuthService {
	s := &authService{
		userRepo:   userRepo,
		issuer:     issuer,
		authorizer: authorizer,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *authService) RegisterUser(ctx context.Context, email, password, name string) (*model.User, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.Create(ctx, &model.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		Role:         model.RoleUser,
	})
	if err != nil {
		// lost the race against a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.issuer.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *authService) LoginUser(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if user == nil {
		// Burn a comparison anyway so unknown emails cost the same as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issuer.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *authService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("project-hub-dummy-password"), s.bcryptCost)
	})
	return s.dummyHash
}

func (s *authService) ResolveIdentity(token string) (model.Identity, error) {
	identity, err := s.issuer.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return model.Identity{}, ErrTokenExpired
		}
		return model.Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return identity, nil
}

// GetUserProfile reads the caller's row fresh from the store rather than trusting the token.
func (s *authService) GetUserProfile(ctx context.Context, identity model.Identity) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) ListUsers(ctx context.Context, identity model.Identity) ([]model.User, error) {
	if err := s.authorizer.Authorize(ctx, identity, authz.ActionList, authz.Users()); err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx)
}

func (s *authService) PromoteUser(ctx context.Context, email string) error {
	ok, err := s.userRepo.UpdateRole(ctx, email, model.RoleAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

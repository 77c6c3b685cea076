package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mohitjoer/travel-planner/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserStore is the persistence surface the service needs. It is satisfied
// by *repository.UserRepository.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// UserService encapsulates the business logic for user operations.
type UserService struct {
	store UserStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// RegisterUser registers a new user after hashing their password.
func (s *UserService) RegisterUser(ctx context.Context, username, email, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || email == "" || password == "" {
		logrus.Warn("Missing required fields during registration")
		return nil, fmt.Errorf("%w: username, email and password are required", models.ErrValidation)
	}

	if !emailRegex.MatchString(email) {
		logrus.WithField("email", email).Warn("Invalid email format during registration")
		return nil, fmt.Errorf("%w: invalid email format", models.ErrValidation)
	}

	// Check if the email is already registered.
	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		logrus.WithField("email", email).Warn("Email already in use")
		return nil, fmt.Errorf("%w: email already in use", models.ErrValidation)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:       strings.TrimSpace(username),
		Email:          email,
		HashedPassword: string(hashedPwd),
	}

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	logrus.WithField("userID", created.ID.Hex()).Info("User registered successfully")
	return created, nil
}

// AuthenticateUser verifies the email and password and returns the user if
// credentials are valid.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		logrus.WithField("email", email).Warn("User not found during authentication")
		return nil, fmt.Errorf("%w: invalid credentials", models.ErrNotAuthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", email).Warn("Password mismatch during authentication")
		return nil, fmt.Errorf("%w: invalid credentials", models.ErrNotAuthenticated)
	}

	return user, nil
}

// GetUser fetches a user by their hex ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID", models.ErrValidation)
	}
	return s.store.GetUserByID(ctx, objID)
}

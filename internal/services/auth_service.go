package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ayatori/workspace-chat-api/internal/constants"
	"github.com/ayatori/workspace-chat-api/internal/models"
	"github.com/ayatori/workspace-chat-api/internal/repository"
	"github.com/ayatori/workspace-chat-api/internal/store"
	"github.com/ayatori/workspace-chat-api/internal/utils"
	"github.com/ayatori/workspace-chat-api/pkg/auth"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidEmail         = errors.New("email is not a valid email")
	ErrEmailTaken           = errors.New("email address is already in use")
	ErrPasswordTooShort     = errors.New("password is less than 6 characters long")
	ErrInvalidName          = errors.New("name is not between 1 and 50 characters")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("token is not a valid token")
	ErrInvalidResetCode     = errors.New("reset code is not valid")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Mailer delivers password reset codes. Real delivery is outside this
// system; implementations may just log.
type Mailer interface {
	SendResetCode(email, code string) error
}

// AuthService handles registration, login and token resolution.
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *auth.JWTManager
	mailer     Mailer
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, jwtManager *auth.JWTManager, mailer Mailer) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		mailer:     mailer,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email     string
	Password  string
	NameFirst string
	NameLast  string
}

// Register creates a new user and logs them in. The first user to register
// becomes the workspace owner.
func (s *AuthService) Register(input RegisterInput) (*models.User, string, error) {
	email := strings.TrimSpace(input.Email)
	if !emailPattern.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if s.userRepo.EmailTaken(email) {
		return nil, "", ErrEmailTaken
	}
	if utf8.RuneCountInString(input.Password) < constants.MinPasswordLength {
		return nil, "", ErrPasswordTooShort
	}
	if !validNameLength(input.NameFirst) || !validNameLength(input.NameLast) {
		return nil, "", ErrInvalidName
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", ErrFailedToHashPassword
	}

	handle := utils.GenerateHandle(input.NameFirst, input.NameLast, constants.MaxHandleLength, s.userRepo.HandleTaken)

	user := &models.User{
		Email:        email,
		NameFirst:    input.NameFirst,
		NameLast:     input.NameLast,
		Handle:       handle,
		PasswordHash: string(hashedPassword),
	}
	if _, err := s.userRepo.CreateUser(user); err != nil {
		switch {
		case errors.Is(err, store.ErrEmailTaken):
			return nil, "", ErrEmailTaken
		default:
			return nil, "", fmt.Errorf("failed to create user: %w", err)
		}
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the user with a fresh token.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	if !emailPattern.MatchString(input.Email) {
		return nil, "", ErrInvalidEmail
	}

	user, err := s.userRepo.FindUserByEmail(input.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(userID uint64) (*models.User, error) {
	user, err := s.userRepo.GetUser(userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Logout invalidates an active token.
func (s *AuthService) Logout(token string) error {
	if err := s.userRepo.RemoveSession(token); err != nil {
		return ErrInvalidToken
	}
	return nil
}

// ResolveToken maps an opaque session token to a user id. A token is valid
// only if its signature verifies and it is still registered as an active
// session, so logout and user removal revoke access immediately.
func (s *AuthService) ResolveToken(token string) (uint64, error) {
	claims, err := s.jwtManager.Verify(token)
	if err != nil {
		return 0, ErrInvalidToken
	}
	userID, ok := s.userRepo.SessionUserID(token)
	if !ok {
		return 0, ErrInvalidToken
	}
	if subject, err := strconv.ParseUint(claims.Subject, 10, 64); err != nil || subject != userID {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

// PasswordResetRequest issues a reset code for a registered email and hands
// it to the mailer. Unregistered emails are silently ignored so the request
// does not reveal which addresses exist.
func (s *AuthService) PasswordResetRequest(email string) error {
	if !s.userRepo.EmailTaken(email) {
		return nil
	}
	code := utils.GenerateResetCode()
	s.userRepo.SetResetCode(email, code)
	return s.mailer.SendResetCode(email, code)
}

// PasswordResetReset redeems a reset code for a new password.
func (s *AuthService) PasswordResetReset(code, newPassword string) error {
	if utf8.RuneCountInString(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}
	if err := s.userRepo.ConsumeResetCode(code, string(hashedPassword)); err != nil {
		return ErrInvalidResetCode
	}
	return nil
}

func (s *AuthService) issueToken(userID uint64) (string, error) {
	token, err := s.jwtManager.Generate(userID, uuid.NewString())
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	s.userRepo.AddSession(token, userID)
	return token, nil
}

func validNameLength(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= constants.MinNameLength && n <= constants.MaxNameLength
}

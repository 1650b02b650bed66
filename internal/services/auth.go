package services

import (
	"context"
	"errors"
	"regexp"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sgnatenko/todo-chat-api/internal/logger"
	"github.com/sgnatenko/todo-chat-api/internal/models"
)

// Error variables
var (
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrInvalidEmail         = errors.New("invalid email format")
	ErrWeakPassword         = errors.New("password must be 8-128 characters with at least one uppercase letter, one lowercase letter and one digit")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrTooManyLoginAttempts = errors.New("too many failed login attempts")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, email, passwordHash string) (*models.UserDB, error)
}

// TokenGenerator defines an interface for issuing access tokens.
type TokenGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID, email string) (string, error)
}

// AttemptLimiter throttles failed sign-ins per email.
type AttemptLimiter interface {
	TooMany(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService handles signup and signin.
type AuthService struct {
	reader   UserReader
	writer   UserWriter
	jwt      TokenGenerator
	attempts AttemptLimiter
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt TokenGenerator, attempts AttemptLimiter) *AuthService {
	return &AuthService{
		reader:   reader,
		writer:   writer,
		jwt:      jwt,
		attempts: attempts,
	}
}

// Register validates the credentials and creates a new user. Validation
// happens before any persistence.
func (svc *AuthService) Register(ctx context.Context, email, password string) (*models.UserDB, error) {
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if !isValidPassword(password) {
		return nil, ErrWeakPassword
	}

	existing, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "error", err)
		return nil, err
	}
	if existing != nil {
		logger.Log.Infow("signup rejected, email taken", "email", email)
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "error", err)
		return nil, err
	}

	user, err := svc.writer.Save(ctx, email, string(hashedPassword))
	if err != nil {
		logger.Log.Errorw("failed to save user", "error", err)
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and returns an access token plus the user
// record. Unknown email and wrong password are indistinguishable to the
// caller. Failed attempts are throttled per email.
func (svc *AuthService) Login(ctx context.Context, email, password string) (string, *models.UserDB, error) {
	if locked, err := svc.attempts.TooMany(ctx, email); err != nil {
		// Throttling is best-effort: a cache outage must not block sign-in.
		logger.Log.Errorw("login throttle check failed", "error", err)
	} else if locked {
		logger.Log.Infow("login rejected, too many attempts", "email", email)
		return "", nil, ErrTooManyLoginAttempts
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "error", err)
		return "", nil, err
	}
	if user == nil {
		svc.recordFailure(ctx, email)
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		svc.recordFailure(ctx, email)
		logger.Log.Infow("invalid credentials", "email", email)
		return "", nil, ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user.UserID, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "error", err)
		return "", nil, err
	}

	if err := svc.attempts.Reset(ctx, email); err != nil {
		logger.Log.Errorw("failed to reset login attempts", "error", err)
	}

	return token, user, nil
}

func (svc *AuthService) recordFailure(ctx context.Context, email string) {
	if err := svc.attempts.RecordFailure(ctx, email); err != nil {
		logger.Log.Errorw("failed to record login failure", "error", err)
	}
}

// isValidPassword checks the signup password policy: 8-128 characters with
// at least one uppercase letter, one lowercase letter and one digit.
func isValidPassword(password string) bool {
	if len(password) < 8 || len(password) > 128 {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}

	return hasUpper && hasLower && hasDigit
}

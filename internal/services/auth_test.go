package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/sgnatenko/todo-chat-api/internal/models"
	"github.com/sgnatenko/todo-chat-api/internal/services"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockTokenGenerator(ctrl)
	mockAttempts := services.NewMockAttemptLimiter(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockJWT, mockAttempts)

	tests := []struct {
		name         string
		email        string
		password     string
		existingUser *models.UserDB
		readerErr    error
		writerErr    error
		skipReader   bool
		wantErr      error
	}{
		{
			name:     "successful registration",
			email:    "alice@example.com",
			password: "Passw0rd1",
		},
		{
			name:       "invalid email",
			email:      "not-an-email",
			password:   "Passw0rd1",
			skipReader: true,
			wantErr:    services.ErrInvalidEmail,
		},
		{
			name:       "password too short",
			email:      "bob@example.com",
			password:   "Ab1",
			skipReader: true,
			wantErr:    services.ErrWeakPassword,
		},
		{
			name:       "password missing uppercase",
			email:      "bob@example.com",
			password:   "passw0rd1",
			skipReader: true,
			wantErr:    services.ErrWeakPassword,
		},
		{
			name:       "password missing digit",
			email:      "bob@example.com",
			password:   "Password",
			skipReader: true,
			wantErr:    services.ErrWeakPassword,
		},
		{
			name:         "email already exists",
			email:        "carol@example.com",
			password:     "Passw0rd1",
			existingUser: &models.UserDB{UserID: uuid.New(), Email: "carol@example.com"},
			wantErr:      services.ErrEmailAlreadyExists,
		},
		{
			name:      "reader error",
			email:     "eve@example.com",
			password:  "Passw0rd1",
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
		{
			name:      "writer error",
			email:     "dave@example.com",
			password:  "Passw0rd1",
			writerErr: errors.New("save error"),
			wantErr:   errors.New("save error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.skipReader {
				mockReader.EXPECT().
					GetByEmail(gomock.Any(), tt.email).
					Return(tt.existingUser, tt.readerErr)
			}

			if !tt.skipReader && tt.existingUser == nil && tt.readerErr == nil {
				mockWriter.EXPECT().
					Save(gomock.Any(), tt.email, gomock.Any()).
					DoAndReturn(func(_ context.Context, email, hash string) (*models.UserDB, error) {
						if tt.writerErr != nil {
							return nil, tt.writerErr
						}
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(tt.password)))
						return &models.UserDB{UserID: uuid.New(), Email: email}, nil
					})
			}

			user, err := svc.Register(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.email, user.Email)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockTokenGenerator(ctrl)
	mockAttempts := services.NewMockAttemptLimiter(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, mockJWT, mockAttempts)

	password := "Passw0rd1"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userID := uuid.New()

	tests := []struct {
		name          string
		email         string
		loginPass     string
		locked        bool
		throttleErr   error
		user          *models.UserDB
		readerErr     error
		jwtToken      string
		jwtErr        error
		expectFailure bool
		expectReset   bool
		wantToken     string
		wantErr       error
	}{
		{
			name:        "successful login",
			email:       "alice@example.com",
			loginPass:   password,
			user:        &models.UserDB{UserID: userID, Email: "alice@example.com", PasswordHash: string(hashed)},
			jwtToken:    "token123",
			expectReset: true,
			wantToken:   "token123",
		},
		{
			name:      "too many attempts",
			email:     "alice@example.com",
			loginPass: password,
			locked:    true,
			wantErr:   services.ErrTooManyLoginAttempts,
		},
		{
			name:        "throttle check failure is ignored",
			email:       "alice@example.com",
			loginPass:   password,
			throttleErr: errors.New("redis down"),
			user:        &models.UserDB{UserID: userID, Email: "alice@example.com", PasswordHash: string(hashed)},
			jwtToken:    "token123",
			expectReset: true,
			wantToken:   "token123",
		},
		{
			name:          "unknown email",
			email:         "ghost@example.com",
			loginPass:     password,
			user:          nil,
			expectFailure: true,
			wantErr:       services.ErrInvalidCredentials,
		},
		{
			name:          "wrong password",
			email:         "alice@example.com",
			loginPass:     "WrongPass1",
			user:          &models.UserDB{UserID: userID, Email: "alice@example.com", PasswordHash: string(hashed)},
			expectFailure: true,
			wantErr:       services.ErrInvalidCredentials,
		},
		{
			name:      "reader error",
			email:     "alice@example.com",
			loginPass: password,
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
		{
			name:      "token generation error",
			email:     "alice@example.com",
			loginPass: password,
			user:      &models.UserDB{UserID: userID, Email: "alice@example.com", PasswordHash: string(hashed)},
			jwtErr:    errors.New("sign error"),
			wantErr:   errors.New("sign error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAttempts.EXPECT().
				TooMany(gomock.Any(), tt.email).
				Return(tt.locked, tt.throttleErr)

			if !tt.locked {
				mockReader.EXPECT().
					GetByEmail(gomock.Any(), tt.email).
					Return(tt.user, tt.readerErr)
			}

			if tt.expectFailure {
				mockAttempts.EXPECT().
					RecordFailure(gomock.Any(), tt.email).
					Return(nil)
			}

			if tt.user != nil && tt.loginPass == password {
				mockJWT.EXPECT().
					Generate(gomock.Any(), tt.user.UserID, tt.user.Email).
					Return(tt.jwtToken, tt.jwtErr)
			}

			if tt.expectReset {
				mockAttempts.EXPECT().
					Reset(gomock.Any(), tt.email).
					Return(nil)
			}

			token, user, err := svc.Login(context.Background(), tt.email, tt.loginPass)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, tt.user, user)
			}
		})
	}
}

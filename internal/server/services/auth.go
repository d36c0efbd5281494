// Package services contains server-side business logic. This file implements
// AuthService, which handles signup, login, password changes, and session
// token validation for the student portal boundary.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lmwansa/studentportal/internal/common"
	"github.com/lmwansa/studentportal/internal/logging"
	"github.com/lmwansa/studentportal/internal/server/auth"
	"github.com/lmwansa/studentportal/internal/server/config"
	"github.com/lmwansa/studentportal/internal/server/models"
	"github.com/lmwansa/studentportal/internal/server/repositories/students"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

// SignupInput carries everything a new registration provides: the credential
// pair plus the profile fields stored alongside it.
type SignupInput struct {
	Username string
	Password string
	Profile  models.Profile
	Courses  []models.Course
}

// AuthService provides the credential operations of the security perimeter:
// - Signup: create a student with a hashed password
// - Login: verify credentials and mint a session token
// - ChangePassword: rotate the stored hash
// - ValidateToken: resolve a session token to its subject
type AuthService struct {
	students    students.Repository
	hasher      *auth.Hasher
	logger      logging.Logger
	tokenSecret []byte
	tokenTTL    time.Duration
}

// NewAuthService constructs an AuthService from the repository and server config.
func NewAuthService(repo students.Repository, hasher *auth.Hasher, logger logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		students:    repo,
		hasher:      hasher,
		logger:      logger.With("module", "auth_service"),
		tokenSecret: []byte(cfg.TokenSecret),
		tokenTTL:    cfg.TokenTTL,
	}
}

// Signup validates the credential pair, hashes the password, and persists
// the student. The duplicate check and the insert are atomic at the store,
// so concurrent signups for one username yield exactly one success.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) error {
	username := strings.TrimSpace(in.Username)
	if utf8.RuneCountInString(username) < minUsernameLength {
		return common.NewValidationError("Username must be at least 3 characters")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return common.NewValidationError("Password must be at least 6 characters")
	}

	// Fast-path duplicate check; the unique index still decides races.
	if _, err := s.students.GetByUsername(ctx, username); err == nil {
		return common.ErrorDuplicateUser
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "signup lookup failed", "error", err)
		return common.ErrorInternal
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return common.ErrorInternal
	}

	student := &models.Student{
		Username:     username,
		PasswordHash: hash,
		Profile:      in.Profile,
		Courses:      in.Courses,
	}
	if _, err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, common.ErrorDuplicateUser) {
			return err
		}
		s.logger.Error(ctx, "signup create failed", "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "student registered", "username", username)
	return nil
}

// Login verifies the credential pair and, on success, returns a session
// token and the student record. An unknown username and a wrong password
// both surface common.ErrorInvalidCredentials so responses cannot be used
// to enumerate registered usernames; the log keeps the distinction.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.Student, error) {
	if username == "" || password == "" {
		return "", nil, common.NewValidationError("Username and password required")
	}

	student, err := s.students.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "login failed", "username", username, "reason", "unknown username")
			return "", nil, common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return "", nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, student.PasswordHash) {
		s.logger.Info(ctx, "login failed", "username", username, "reason", "password mismatch")
		return "", nil, common.ErrorInvalidCredentials
	}

	token, err := auth.IssueToken(student.ID, s.tokenSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", "error", err)
		return "", nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "login succeeded", "username", username)
	return token, student, nil
}

// ChangePassword verifies the old password and stores a hash of the new one.
// Unlike Login, an unknown username surfaces common.ErrorNotFound; the
// original portal contract returns 404 here and existing clients depend on it.
func (s *AuthService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if username == "" || oldPassword == "" || newPassword == "" {
		return common.NewValidationError("Username, old password and new password required")
	}
	if utf8.RuneCountInString(newPassword) < minPasswordLength {
		return common.NewValidationError("New password must be at least 6 characters")
	}

	student, err := s.students.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "change-password lookup failed", "error", err)
		return common.ErrorInternal
	}

	if !s.hasher.Verify(oldPassword, student.PasswordHash) {
		s.logger.Info(ctx, "change-password failed", "username", username, "reason", "old password mismatch")
		return common.ErrorWrongOldPassword
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return common.ErrorInternal
	}

	if err := s.students.UpdatePasswordHash(ctx, username, newHash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "change-password update failed", "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "password changed", "username", username)
	return nil
}

// ValidateToken resolves a session token to its subject id. The error is one
// of the token lifecycle sentinels; the transport collapses them to a single
// unauthorized response and logs the specific kind.
func (s *AuthService) ValidateToken(token string) (string, error) {
	return auth.SubjectFromToken(token, s.tokenSecret)
}

// Package auth implements credential sign-in for dashboard operators.
// Authentication failures are classified; anything unclassified (for example
// a database outage) propagates to the caller's fault boundary untouched.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/udelbo/acme-admin/internal/domain"
	"github.com/udelbo/acme-admin/pkg/common"
)

// Error classes.
const (
	ErrTypeCredentials  = "CredentialsSignin"
	ErrTypeAccessDenied = "AccessDenied"
)

// User-facing messages for classified errors.
const (
	MsgInvalidCredentials = "Invalid credentials."
	MsgAuthWentWrong      = "Something went wrong."
)

// Error is a classified authentication failure.
type Error struct {
	Type   string
	Reason string
}

func (e *Error) Error() string {
	return "auth: " + e.Type + ": " + e.Reason
}

// Classify maps a sign-in error to its user-facing message. The second return
// is false for unclassified errors, which the caller must not swallow.
func Classify(err error) (string, bool) {
	var ae *Error
	if !errors.As(err, &ae) {
		return "", false
	}
	if ae.Type == ErrTypeCredentials {
		return MsgInvalidCredentials, true
	}
	return MsgAuthWentWrong, true
}

type Service struct {
	db       *gorm.DB
	secret   []byte
	tokenTTL time.Duration
}

func NewService(db *gorm.DB, secret string, tokenTTL time.Duration) *Service {
	return &Service{db: db, secret: []byte(secret), tokenTTL: tokenTTL}
}

// SignIn verifies the credentials against the operator table. Unknown
// account, wrong password and disabled account are classified errors; store
// errors are returned as-is.
func (s *Service) SignIn(ctx context.Context, username, password string) (*domain.SysOpr, error) {
	username = strings.TrimSpace(username)

	var opr domain.SysOpr
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, username).
		First(&opr).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, &Error{Type: ErrTypeCredentials, Reason: "operator not found"}
	case err != nil:
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(opr.Password), []byte(password)) != nil {
		return nil, &Error{Type: ErrTypeCredentials, Reason: "password mismatch"}
	}
	if !strings.EqualFold(opr.Status, common.ENABLED) {
		return nil, &Error{Type: ErrTypeAccessDenied, Reason: "operator disabled"}
	}

	if err := s.db.WithContext(ctx).
		Model(&domain.SysOpr{}).
		Where("id = ?", opr.ID).
		Update("last_login", time.Now()).Error; err != nil {
		zap.L().Warn("update last_login failed", zap.String("username", opr.Username), zap.Error(err))
	}
	return &opr, nil
}

// IssueToken mints the signed JWT used by the admin API session.
func (s *Service) IssueToken(opr *domain.SysOpr) (string, error) {
	claims := jwt.MapClaims{
		"jti":   uuid.NewString(),
		"sub":   opr.Username,
		"uid":   opr.ID,
		"level": opr.Level,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// HashPassword hashes an operator password for storage.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

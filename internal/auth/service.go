package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cartlyhq/cartly-backend/internal/customers"
	pkgauth "github.com/cartlyhq/cartly-backend/pkg/auth"
	"github.com/cartlyhq/cartly-backend/pkg/auth/session"
	"github.com/cartlyhq/cartly-backend/pkg/config"
	"github.com/cartlyhq/cartly-backend/pkg/db/models"
	pkgerrors "github.com/cartlyhq/cartly-backend/pkg/errors"
	"github.com/cartlyhq/cartly-backend/pkg/logger"
	"github.com/cartlyhq/cartly-backend/pkg/security"
)

const customerRoleSlug = "customer"

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	CustomerRepo *customers.Repository
	TokenRepo    *TokenRepository
	Cache        session.Cache
	JWT          config.JWTConfig
	Password     config.PasswordConfig
	Logger       *logger.Logger
	Now          func() time.Time
}

// Service exposes account lifecycle and token validation.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (SessionDTO, error)
	Login(ctx context.Context, input LoginInput) (SessionDTO, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPairDTO, error)
	Logout(ctx context.Context, accessToken string, customerID uuid.UUID) error
	ValidateToken(ctx context.Context, accessToken string, customerID uuid.UUID) (*session.Entry, error)
	Profile(ctx context.Context, customerID uuid.UUID) (customers.ProfileDTO, error)
	UpdateProfile(ctx context.Context, customerID uuid.UUID, input customers.UpdateProfileDTO) (customers.ProfileDTO, error)
	ChangePassword(ctx context.Context, customerID uuid.UUID, input ChangePasswordInput) error
}

type service struct {
	customerRepo *customers.Repository
	tokenRepo    *TokenRepository
	cache        session.Cache
	jwt          config.JWTConfig
	password     config.PasswordConfig
	logg         *logger.Logger
	now          func() time.Time
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CustomerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer repo is required")
	}
	if params.TokenRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token repo is required")
	}
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session cache is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		customerRepo: params.CustomerRepo,
		tokenRepo:    params.TokenRepo,
		cache:        params.Cache,
		jwt:          params.JWT,
		password:     params.Password,
		logg:         params.Logger,
		now:          now,
	}, nil
}

// Register creates a customer account and issues its first token pair.
func (s *service) Register(ctx context.Context, input RegisterInput) (SessionDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	if _, err := s.customerRepo.FindByEmail(ctx, email); err == nil {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	if _, err := s.customerRepo.FindByUsername(ctx, username); err == nil {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "username is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	dto := customers.CreateCustomerDTO{
		FullName:     strings.TrimSpace(input.FullName),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Phone:        input.Phone,
	}
	if role, err := s.customerRepo.FindRoleBySlug(ctx, customerRoleSlug); err == nil {
		dto.RoleID = &role.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role")
	}

	customer, err := s.customerRepo.Create(ctx, dto)
	if err != nil {
		if pkgerrors.IsUniqueViolation(err, "") {
			return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "account already exists")
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}

	return s.openSession(ctx, customer)
}

// Login verifies credentials and issues a fresh token pair. Unknown email
// and bad password collapse into the same error.
func (s *service) Login(ctx context.Context, input LoginInput) (SessionDTO, error) {
	invalid := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")

	customer, err := s.customerRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionDTO{}, invalid
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if !customer.IsActive {
		return SessionDTO{}, invalid
	}

	ok, err := security.VerifyPassword(input.Password, customer.PasswordHash)
	if err != nil || !ok {
		return SessionDTO{}, invalid
	}

	return s.openSession(ctx, customer)
}

func (s *service) openSession(ctx context.Context, customer *models.Customer) (SessionDTO, error) {
	now := s.now()
	payload := pkgauth.TokenPayload{
		CustomerID: customer.ID,
		Email:      customer.Email,
		Role:       customerRoleSlug,
	}

	access, err := pkgauth.MintToken(s.jwt, now, pkgauth.TokenKindAccess, payload)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refresh, err := pkgauth.MintToken(s.jwt, now, pkgauth.TokenKindRefresh, payload)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint refresh token")
	}

	expiresAt := now.Add(s.jwt.AccessTTL())
	if err := s.tokenRepo.Create(ctx, &models.CustomerToken{
		CustomerID:   customer.ID,
		Token:        access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}); err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist token")
	}

	s.cacheSession(ctx, access, customer, expiresAt)

	return SessionDTO{
		Customer: customers.ToProfileDTO(customer, s.roleSlug(ctx, customer)),
		Tokens: TokenPairDTO{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    int64(s.jwt.AccessTTL().Seconds()),
		},
	}, nil
}

// Refresh mints a new access token against a stored refresh token.
func (s *service) Refresh(ctx context.Context, refreshToken string) (TokenPairDTO, error) {
	invalid := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")

	claims, err := pkgauth.ParseToken(s.jwt, refreshToken)
	if err != nil || claims.Kind != pkgauth.TokenKindRefresh {
		return TokenPairDTO{}, invalid
	}

	row, err := s.tokenRepo.FindByRefresh(ctx, refreshToken, claims.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPairDTO{}, invalid
		}
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load token")
	}
	if !s.now().Before(row.ExpiresAt) {
		return TokenPairDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "refresh token expired, please login again")
	}

	customer, err := s.customerRepo.FindByID(ctx, claims.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPairDTO{}, invalid
		}
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	now := s.now()
	access, err := pkgauth.MintToken(s.jwt, now, pkgauth.TokenKindAccess, pkgauth.TokenPayload{
		CustomerID: customer.ID,
		Email:      customer.Email,
		Role:       customerRoleSlug,
	})
	if err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	oldAccess := row.Token
	expiresAt := now.Add(s.jwt.AccessTTL())
	if err := s.tokenRepo.RotateAccess(ctx, row.ID, access, expiresAt); err != nil {
		return TokenPairDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate token")
	}

	if err := s.cache.Del(ctx, oldAccess); err != nil {
		s.logg.Warn(ctx, "evicting stale session cache entry failed: "+err.Error())
	}
	s.cacheSession(ctx, access, customer, expiresAt)

	return TokenPairDTO{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwt.AccessTTL().Seconds()),
	}, nil
}

// Logout discards the token row and its cache entry. Missing rows are not
// an error.
func (s *service) Logout(ctx context.Context, accessToken string, customerID uuid.UUID) error {
	if err := s.tokenRepo.DeleteByToken(ctx, accessToken, customerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete token")
	}
	if err := s.cache.Del(ctx, accessToken); err != nil {
		s.logg.Warn(ctx, "evicting session cache entry failed: "+err.Error())
	}
	return nil
}

// ValidateToken resolves the literal access token into a session entry.
// The cache is consulted first and ignored on error; the token row is the
// source of truth. A nil entry means the caller is unauthenticated.
func (s *service) ValidateToken(ctx context.Context, accessToken string, customerID uuid.UUID) (*session.Entry, error) {
	if accessToken == "" || customerID == uuid.Nil {
		return nil, nil
	}

	entry, err := s.cache.Get(ctx, accessToken)
	switch {
	case err == nil:
		if entry.CustomerID == customerID && s.now().Before(entry.ExpiresAt) {
			return entry, nil
		}
		// stale or mismatched entry, drop it and fall through to the DB
		if delErr := s.cache.Del(ctx, accessToken); delErr != nil {
			s.logg.Warn(ctx, "evicting stale session cache entry failed: "+delErr.Error())
		}
	case errors.Is(err, session.ErrMiss):
		// fall through
	default:
		// fail open: a cache outage must not take down auth
		s.logg.Warn(ctx, "session cache lookup failed: "+err.Error())
	}

	row, err := s.tokenRepo.FindValid(ctx, accessToken, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load token")
	}
	if !s.now().Before(row.ExpiresAt) {
		return nil, nil
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if !customer.IsActive {
		return nil, nil
	}

	fresh := s.cacheSession(ctx, accessToken, customer, row.ExpiresAt)
	return fresh, nil
}

// Profile returns the external account view.
func (s *service) Profile(ctx context.Context, customerID uuid.UUID) (customers.ProfileDTO, error) {
	customer, err := s.loadCustomer(ctx, customerID)
	if err != nil {
		return customers.ProfileDTO{}, err
	}
	return customers.ToProfileDTO(customer, s.roleSlug(ctx, customer)), nil
}

// UpdateProfile applies fullname/phone edits.
func (s *service) UpdateProfile(ctx context.Context, customerID uuid.UUID, input customers.UpdateProfileDTO) (customers.ProfileDTO, error) {
	if _, err := s.loadCustomer(ctx, customerID); err != nil {
		return customers.ProfileDTO{}, err
	}
	customer, err := s.customerRepo.UpdateProfile(ctx, customerID, input)
	if err != nil {
		return customers.ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return customers.ToProfileDTO(customer, s.roleSlug(ctx, customer)), nil
}

// ChangePassword verifies the current password before re-hashing.
func (s *service) ChangePassword(ctx context.Context, customerID uuid.UUID, input ChangePasswordInput) error {
	customer, err := s.loadCustomer(ctx, customerID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(input.CurrentPassword, customer.PasswordHash)
	if err != nil || !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(input.NewPassword, s.password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.customerRepo.UpdatePassword(ctx, customerID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	return nil
}

func (s *service) loadCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

// cacheSession writes through the session entry with TTL equal to the
// remaining token lifetime. Failures are logged and swallowed.
func (s *service) cacheSession(ctx context.Context, accessToken string, customer *models.Customer, expiresAt time.Time) *session.Entry {
	entry := session.Entry{
		CustomerID: customer.ID,
		Email:      customer.Email,
		FullName:   customer.FullName,
		ExpiresAt:  expiresAt,
	}
	ttl := expiresAt.Sub(s.now())
	if ttl > 0 {
		if err := s.cache.Set(ctx, accessToken, entry, ttl); err != nil {
			s.logg.Warn(ctx, "caching session entry failed: "+err.Error())
		}
	}
	return &entry
}

func (s *service) roleSlug(ctx context.Context, customer *models.Customer) string {
	if customer.RoleID == nil {
		return ""
	}
	role, err := s.customerRepo.FindRoleByID(ctx, *customer.RoleID)
	if err != nil {
		return ""
	}
	return role.Slug
}

package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"folio/internal/access"
	"folio/internal/apperr"
	"folio/internal/ids"
	"folio/internal/metrics"
	"folio/internal/models"
	"folio/internal/repository"
)

const minPasswordLength = 8

var (
	validate        = validator.New()
	usernamePattern = regexp.MustCompile(`^[a-z0-9_-]{3,32}$`)
)

type AccountService struct {
	users    UserStore
	hasher   PasswordHasher
	tokens   TokenIssuer
	throttle LoginLimiter
	assets   *Assets
	log      zerolog.Logger
}

func NewAccountService(
	users UserStore,
	hasher PasswordHasher,
	tokens TokenIssuer,
	throttle LoginLimiter,
	assets *Assets,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		throttle: throttle,
		assets:   assets,
		log:      log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return models.User{}, apperr.Validation("name, email and password are required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return models.User{}, apperr.Validation("invalid email address")
	}
	if len(input.Password) < minPasswordLength {
		return models.User{}, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return models.User{}, errUserExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, storeErr("find user", err)
	}

	digest, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		return models.User{}, apperr.Internal("hash password", err)
	}

	user, err := s.users.Create(ctx, models.User{
		ID:           ids.New(),
		Name:         name,
		Email:        email,
		PasswordHash: digest,
		Role:         models.UserRoleUser,
	})
	if err != nil {
		return models.User{}, storeErr("create user", err)
	}
	return user, nil
}

type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}

type LoginResult struct {
	Token string
	User  models.User
}

// Login fails identically for unknown emails and wrong passwords, and spends
// the same hashing work in both cases.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return LoginResult{}, apperr.Validation("email and password are required")
	}

	subject := email + "|" + input.ClientIP
	if s.throttle != nil {
		allowed, err := s.throttle.Allowed(ctx, subject)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle unavailable")
		} else if !allowed {
			metrics.LoginAttempts.WithLabelValues("throttled").Inc()
			return LoginResult{}, apperr.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		s.hasher.VerifyDummy(ctx, input.Password)
		return LoginResult{}, s.loginFailed(ctx, subject)
	case err != nil:
		return LoginResult{}, storeErr("find user", err)
	}

	if !s.hasher.Verify(ctx, input.Password, user.PasswordHash) {
		return LoginResult{}, s.loginFailed(ctx, subject)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return LoginResult{}, apperr.Internal("issue token", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, subject); err != nil {
			s.log.Warn().Err(err).Msg("reset login throttle failed")
		}
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return LoginResult{Token: token, User: user}, nil
}

func (s *AccountService) loginFailed(ctx context.Context, subject string) error {
	metrics.LoginAttempts.WithLabelValues("invalid").Inc()
	if s.throttle != nil {
		if err := s.throttle.Fail(ctx, subject); err != nil {
			s.log.Warn().Err(err).Msg("record login failure failed")
		}
	}
	return apperr.ErrInvalidCredentials
}

// Me returns the authenticated principal unchanged.
func (s *AccountService) Me(principal models.Principal) models.Principal {
	return principal
}

func (s *AccountService) ChangePassword(ctx context.Context, principal models.Principal, current, next string) error {
	if current == "" || next == "" {
		return apperr.Validation("current password and new password are required")
	}
	if len(next) < minPasswordLength {
		return apperr.Validation("new password must be at least %d characters", minPasswordLength)
	}

	user, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		return storeErr("load user", err)
	}
	if !s.hasher.Verify(ctx, current, user.PasswordHash) {
		return apperr.Validation("current password is incorrect")
	}

	digest, err := s.hasher.Hash(ctx, next)
	if err != nil {
		return apperr.Internal("hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, digest); err != nil {
		return storeErr("update password", err)
	}
	return nil
}

// DeleteAccount removes the user and, through the store's cascade, every
// portfolio, section and project they own. Uploads those records referred to
// are queued for deletion afterwards.
func (s *AccountService) DeleteAccount(ctx context.Context, principal models.Principal, password string) error {
	if password == "" {
		return apperr.Validation("password is required")
	}

	user, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		return storeErr("load user", err)
	}
	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		return apperr.Validation("incorrect password")
	}

	urls, err := s.assets.referencedURLs(ctx, user.ID)
	if err != nil {
		return storeErr("list account assets", err)
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return storeErr("delete user", err)
	}

	s.assets.release(ctx, user.ID, "account deleted", urls...)
	s.log.Info().Str("user_id", user.ID).Int("assets", len(urls)).Msg("account deleted")
	return nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, principal models.Principal, name, username string) (models.User, error) {
	name = strings.TrimSpace(name)
	username = strings.ToLower(strings.TrimSpace(username))
	if name == "" || username == "" {
		return models.User{}, apperr.Validation("name and username are required")
	}
	if !usernamePattern.MatchString(username) {
		return models.User{}, apperr.Validation("username must be 3-32 characters of a-z, 0-9, _ or -")
	}

	holder, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if !access.UniqueFor(principal.ID, holder.ID) {
			return models.User{}, errUsernameTaken
		}
	case !errors.Is(err, repository.ErrUserNotFound):
		return models.User{}, storeErr("find user", err)
	}

	user, err := s.users.UpdateProfile(ctx, principal.ID, name, username)
	if err != nil {
		return models.User{}, storeErr("update profile", err)
	}
	return user, nil
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (s *AccountService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	return users, nil
}

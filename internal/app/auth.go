package app

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"hotel_booking/internal/domain"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// a well-formed hash that matches no password, for the unknown-user compare
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// AuthService implements registration, login and role grants. Roles are never
// derived from username content: registration always yields member, and admin
// comes only from the bootstrap account or an explicit grant by an admin.
type AuthService struct {
	accounts domain.AccountStore
}

func NewAuthService(accounts domain.AccountStore) *AuthService {
	return &AuthService{accounts: accounts}
}

func validatePassword(password string) []string {
	var violations []string
	if len(password) < 8 {
		violations = append(violations, "password must be at least 8 characters long")
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	if !hasLetter {
		violations = append(violations, "password must contain at least one letter")
	}
	if !hasDigit {
		violations = append(violations, "password must contain at least one number")
	}
	return violations
}

// Register creates a member account. Returns ErrConflict when the username is
// taken and a ValidationError listing every violated rule otherwise.
func (s *AuthService) Register(ctx context.Context, username, password string) (domain.Role, error) {
	var violations []string
	if !usernameRe.MatchString(username) {
		violations = append(violations, "username must be alphanumeric")
	}
	violations = append(violations, validatePassword(password)...)
	if len(violations) > 0 {
		return "", domain.Validation(violations...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	if _, err := s.accounts.CreateAccount(ctx, domain.Account{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleMember,
	}); err != nil {
		return "", err
	}
	log.Info().Str("username", username).Msg("account registered")
	return domain.RoleMember, nil
}

// Login verifies credentials and returns the account's role. bcrypt's compare
// is constant-time; unknown user and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Role, error) {
	a, err := s.accounts.GetAccount(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// burn a compare anyway so timing doesn't reveal user existence
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}
	return a.Role, nil
}

// GrantAdmin promotes target to admin. Only an existing admin may grant.
func (s *AuthService) GrantAdmin(ctx context.Context, grantor, target string) error {
	g, err := s.accounts.GetAccount(ctx, grantor)
	if err != nil {
		return err
	}
	if g.Role != domain.RoleAdmin {
		return domain.ErrInvalidCredentials
	}
	if err := s.accounts.UpdateRole(ctx, target, domain.RoleAdmin); err != nil {
		return err
	}
	log.Info().Str("grantor", grantor).Str("username", target).Msg("admin role granted")
	return nil
}

// EnsureBootstrapAdmin creates the configured admin account when no admin row
// exists yet. Called once at startup; a no-op when an admin is already present
// or no bootstrap password is configured.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	if strings.TrimSpace(password) == "" {
		return nil
	}
	n, err := s.accounts.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.accounts.CreateAccount(ctx, domain.Account{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	})
	if errors.Is(err, domain.ErrConflict) {
		// the username exists as a member; promote it instead of failing startup
		return s.accounts.UpdateRole(ctx, username, domain.RoleAdmin)
	}
	if err == nil {
		log.Info().Str("username", username).Msg("bootstrap admin created")
	}
	return err
}

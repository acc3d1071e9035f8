package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

// ---- fake ----

type fakeAccountStore struct {
	accounts map[string]domain.Account
	nextID   int64
}

func newFakeAccounts() *fakeAccountStore {
	return &fakeAccountStore{accounts: map[string]domain.Account{}}
}

func (f *fakeAccountStore) GetAccount(ctx context.Context, username string) (domain.Account, error) {
	a, ok := f.accounts[username]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccountStore) CreateAccount(ctx context.Context, a domain.Account) (int64, error) {
	if _, ok := f.accounts[a.Username]; ok {
		return 0, domain.ErrConflict
	}
	f.nextID++
	a.ID = f.nextID
	f.accounts[a.Username] = a
	return a.ID, nil
}

func (f *fakeAccountStore) UpdateRole(ctx context.Context, username string, role domain.Role) error {
	a, ok := f.accounts[username]
	if !ok {
		return domain.ErrNotFound
	}
	a.Role = role
	f.accounts[username] = a
	return nil
}

func (f *fakeAccountStore) CountAdmins(ctx context.Context) (int, error) {
	n := 0
	for _, a := range f.accounts {
		if a.Role == domain.RoleAdmin {
			n++
		}
	}
	return n, nil
}

// ---- tests ----

func TestRegister_PasswordPolicy(t *testing.T) {
	svc := app.NewAuthService(newFakeAccounts())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "guest1", "abcd1234"); err != nil {
		t.Fatalf("abcd1234 should pass: %v", err)
	}

	_, err := svc.Register(ctx, "guest2", "abcdefgh")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Violations) != 1 || !strings.Contains(ve.Violations[0], "number") {
		t.Fatalf("abcdefgh should fail on missing digit, got %v", err)
	}

	_, err = svc.Register(ctx, "guest3", "short1")
	if !errors.As(err, &ve) || len(ve.Violations) != 1 || !strings.Contains(ve.Violations[0], "8 characters") {
		t.Fatalf("short1 should fail on length, got %v", err)
	}

	_, err = svc.Register(ctx, "not ok!", "abcd1234")
	if !errors.As(err, &ve) || !strings.Contains(ve.Violations[0], "alphanumeric") {
		t.Fatalf("expected alphanumeric violation, got %v", err)
	}
}

func TestRegister_NeverGrantsAdminFromUsername(t *testing.T) {
	svc := app.NewAuthService(newFakeAccounts())

	role, err := svc.Register(context.Background(), "Admin99", "abcd1234")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if role != domain.RoleMember {
		t.Fatalf("admin-prefixed username must still register as member, got %s", role)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := app.NewAuthService(newFakeAccounts())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "guest1", "abcd1234"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, err := svc.Register(ctx, "guest1", "abcd1234"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := app.NewAuthService(newFakeAccounts())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "guest1", "abcd1234"); err != nil {
		t.Fatalf("err: %v", err)
	}

	role, err := svc.Login(ctx, "guest1", "abcd1234")
	if err != nil || role != domain.RoleMember {
		t.Fatalf("login: %v role=%s", err, role)
	}
	if _, err := svc.Login(ctx, "guest1", "wrongpass1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "abcd1234"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestPasswordsAreNotStoredInPlaintext(t *testing.T) {
	store := newFakeAccounts()
	svc := app.NewAuthService(store)

	if _, err := svc.Register(context.Background(), "guest1", "abcd1234"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if store.accounts["guest1"].PasswordHash == "abcd1234" {
		t.Fatalf("password stored in plaintext")
	}
}

func TestGrantAdmin(t *testing.T) {
	store := newFakeAccounts()
	svc := app.NewAuthService(store)
	ctx := context.Background()

	if err := svc.EnsureBootstrapAdmin(ctx, "root", "rootpass1"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if _, err := svc.Register(ctx, "guest1", "abcd1234"); err != nil {
		t.Fatalf("err: %v", err)
	}

	// a member cannot grant
	if err := svc.GrantAdmin(ctx, "guest1", "guest1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("member grant should be rejected, got %v", err)
	}

	if err := svc.GrantAdmin(ctx, "root", "guest1"); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if store.accounts["guest1"].Role != domain.RoleAdmin {
		t.Fatalf("expected guest1 promoted to admin")
	}
	if err := svc.GrantAdmin(ctx, "root", "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	store := newFakeAccounts()
	svc := app.NewAuthService(store)
	ctx := context.Background()

	// no password configured: no-op
	if err := svc.EnsureBootstrapAdmin(ctx, "root", ""); err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(store.accounts) != 0 {
		t.Fatalf("no account expected")
	}

	if err := svc.EnsureBootstrapAdmin(ctx, "root", "rootpass1"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if store.accounts["root"].Role != domain.RoleAdmin {
		t.Fatalf("expected bootstrap admin")
	}

	// second run is a no-op
	if err := svc.EnsureBootstrapAdmin(ctx, "other", "otherpass1"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, ok := store.accounts["other"]; ok {
		t.Fatalf("must not create a second admin when one exists")
	}
}

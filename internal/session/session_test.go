package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/overtimestaff/marketboard/internal/access"
)

const key = "user-storage"

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store, key, nil)

	if err := m.SetUser(ctx, User{ID: "u1", Role: RoleAgency}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("SetUser before Init = %v, want ErrNotInitialized", err)
	}

	if err := m.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if m.Phase() != PhaseInit {
		t.Errorf("Phase = %s, want init", m.Phase())
	}
	if _, ok := m.Current(); ok {
		t.Error("Current should be empty after fresh Init")
	}

	user := User{ID: "u1", Email: "a@example.com", Role: RoleAgency}
	if err := m.SetUser(ctx, user); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}
	if m.Phase() != PhaseAuthenticated {
		t.Errorf("Phase = %s, want authenticated", m.Phase())
	}
	got, ok := m.Current()
	if !ok || got != user {
		t.Errorf("Current = %+v, %v", got, ok)
	}

	raw, ok, _ := store.Get(ctx, key)
	if !ok {
		t.Fatal("session not persisted")
	}
	if string(raw) != `{"state":{"user":{"id":"u1","email":"a@example.com","role":"agency"}},"version":0}` {
		t.Errorf("persisted = %s", raw)
	}

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if m.Phase() != PhaseCleared {
		t.Errorf("Phase = %s, want cleared", m.Phase())
	}
	if _, ok, _ := store.Get(ctx, key); ok {
		t.Error("session still persisted after Clear")
	}
}

func TestManagerRestores(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Put(ctx, key, []byte(`{"state":{"user":{"id":"u9","email":"w@example.com","role":"worker"}},"version":0}`))

	m := NewManager(store, key, nil)
	if err := m.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if m.Phase() != PhaseAuthenticated {
		t.Errorf("Phase = %s, want authenticated", m.Phase())
	}
	u, ok := m.Current()
	if !ok || u.ID != "u9" || u.Role.AccessRole() != access.RoleShiftWorker {
		t.Errorf("Current = %+v, %v", u, ok)
	}
}

func TestManagerDiscardsBadSessions(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"null user", `{"state":{"user":null},"version":0}`},
		{"unknown role", `{"state":{"user":{"id":"u1","role":"superuser"}},"version":0}`},
		{"missing id", `{"state":{"user":{"email":"x@example.com","role":"agency"}},"version":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewMemoryStore()
			store.Put(ctx, key, []byte(tt.data))

			m := NewManager(store, key, nil)
			if err := m.Init(ctx); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			if m.Phase() != PhaseInit {
				t.Errorf("Phase = %s, want init", m.Phase())
			}
		})
	}
}

func TestUserValidate(t *testing.T) {
	if err := (User{ID: "u1", Role: "root"}).Validate(); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("err = %v, want ErrInvalidRole", err)
	}
	if err := (User{Role: RoleAdmin}).Validate(); !errors.Is(err, ErrMissingUserID) {
		t.Errorf("err = %v, want ErrMissingUserID", err)
	}
	if err := (User{ID: "u1"}).Validate(); err != nil {
		t.Errorf("unset role should be valid, got %v", err)
	}
}

func TestAccessRole(t *testing.T) {
	tests := []struct {
		role Role
		want access.Role
	}{
		{RoleWorker, access.RoleShiftWorker},
		{RoleAgency, access.RoleAgency},
		{RoleCompany, access.RoleCompany},
		{RoleAdmin, access.RolePlatformAdmin},
		{RoleUnset, ""},
	}
	for _, tt := range tests {
		if got := tt.role.AccessRole(); got != tt.want {
			t.Errorf("%q.AccessRole() = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}

	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get on empty store = %v, %v", ok, err)
	}

	if err := store.Put(ctx, key, []byte("one")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, key, []byte("two")); err != nil {
		t.Fatalf("Put overwrite failed: %v", err)
	}

	v, ok, err := store.Get(ctx, key)
	if err != nil || !ok || string(v) != "two" {
		t.Errorf("Get = %q, %v, %v", v, ok, err)
	}
	store.Close()

	// Reopen: value survives.
	store, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	m := NewManager(store, key, nil)
	m.Init(ctx)
	if err := m.SetUser(ctx, User{ID: "u2", Role: RoleCompany}); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}

	m2 := NewManager(store, key, nil)
	if err := m2.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if u, ok := m2.Current(); !ok || u.ID != "u2" {
		t.Errorf("restored = %+v, %v", u, ok)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("Delete missing key failed: %v", err)
	}
}

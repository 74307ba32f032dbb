package session_test

import (
	"testing"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/session"
)

func TestLoginLogout(t *testing.T) {
	s := session.New()
	if s.IsAuthenticated() {
		t.Fatal("fresh session should be empty")
	}
	if _, ok := s.Current(); ok {
		t.Fatal("fresh session should have no current user")
	}

	s.Login(models.User{ID: "USR-1", Username: "buyer1", Role: models.RoleBuyer})
	u, ok := s.Current()
	if !ok || u.Username != "buyer1" {
		t.Fatalf("expected buyer1 logged in, got %+v ok=%v", u, ok)
	}
	if !s.IsAuthenticated() {
		t.Error("expected IsAuthenticated after login")
	}

	s.Logout()
	if s.IsAuthenticated() {
		t.Error("expected empty session after logout")
	}
}

func TestLoginReplacesCurrentUser(t *testing.T) {
	s := session.New()
	s.Login(models.User{ID: "USR-1", Username: "first"})
	s.Login(models.User{ID: "USR-2", Username: "second"})

	u, _ := s.Current()
	if u.Username != "second" {
		t.Errorf("expected second, got %q", u.Username)
	}
}

func TestIsBanned(t *testing.T) {
	s := session.New()
	if s.IsBanned() {
		t.Error("empty session is never banned")
	}

	s.Login(models.User{ID: "USR-1", Banned: true})
	if !s.IsBanned() {
		t.Error("expected banned to be reported")
	}
}

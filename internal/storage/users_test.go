package storage

import (
	"errors"
	"testing"
)

func TestGetListOfUsersEmpty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	users, err := store.GetListOfUsers()
	if err != nil {
		t.Fatalf("GetListOfUsers failed: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", users)
	}

	if _, err := store.LatestUser(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound from LatestUser, got %v", err)
	}
}

func TestAddOfflineUser(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	id, err := store.AddOfflineUser("jay", "J", "Doe")
	if err != nil {
		t.Fatalf("AddOfflineUser failed: %v", err)
	}

	users, err := store.GetListOfUsers()
	if err != nil {
		t.Fatalf("GetListOfUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	u := users[0]
	if u.ID != id {
		t.Errorf("expected id %d, got %d", id, u.ID)
	}
	if u.Nickname == nil || *u.Nickname != "jay" {
		t.Errorf("expected nickname jay, got %v", u.Nickname)
	}
	if u.UserID != nil || u.Token != nil || u.Email != nil {
		t.Errorf("offline user should have no remote fields: %+v", u)
	}
	if !u.IsOffline() {
		t.Error("expected IsOffline to be true")
	}
}

func TestAddOnlineUser(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	id, err := store.AddOnlineUser(77, "sara", "tok", "Sara", "Karimi", "sara@example.com")
	if err != nil {
		t.Fatalf("AddOnlineUser failed: %v", err)
	}
	u, err := store.GetUser(id)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if u.IsOffline() || *u.UserID != 77 {
		t.Errorf("expected remote user id 77, got %v", u.UserID)
	}
	if *u.Email != "sara@example.com" || *u.Token != "tok" {
		t.Errorf("unexpected remote fields: %+v", u)
	}
}

func TestLatestUserIsLastCreated(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	for _, nick := range []string{"first", "second", "third"} {
		if _, err := store.AddOfflineUser(nick, "Name", "Last"); err != nil {
			t.Fatalf("AddOfflineUser(%s) failed: %v", nick, err)
		}
	}

	users, err := store.GetListOfUsers()
	if err != nil {
		t.Fatalf("GetListOfUsers failed: %v", err)
	}
	if got := *users[len(users)-1].Nickname; got != "third" {
		t.Errorf("expected last element to be third, got %s", got)
	}

	latest, err := store.LatestUser()
	if err != nil {
		t.Fatalf("LatestUser failed: %v", err)
	}
	if *latest.Nickname != "third" {
		t.Errorf("expected latest user third, got %s", *latest.Nickname)
	}
}

func TestGetUserNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if _, err := store.GetUser(9); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

package cache

import (
	"testing"
	"time"

	"github.com/prasetyadev/notulen-assistant/internal/domain/entities"
)

func TestSessionStore_PutGetDelete(t *testing.T) {
	store := NewSessionStore(time.Minute)

	sess := entities.NewMinutesSession()
	store.Put(sess)

	got, ok := store.Get(sess.ID.String())
	if !ok {
		t.Fatalf("expected session to be found")
	}
	if got.ID != sess.ID {
		t.Fatalf("got wrong session %s", got.ID)
	}

	store.Delete(sess.ID.String())
	if _, ok := store.Get(sess.ID.String()); ok {
		t.Fatalf("expected session to be gone after delete")
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStore(10 * time.Millisecond)

	sess := entities.NewMinutesSession()
	store.Put(sess)

	time.Sleep(20 * time.Millisecond)
	if _, ok := store.Get(sess.ID.String()); ok {
		t.Fatalf("expected expired session to miss")
	}
	if store.Len() != 0 {
		t.Fatalf("expected zero live sessions, got %d", store.Len())
	}
}

func TestSessionStore_PutRefreshesExpiry(t *testing.T) {
	store := NewSessionStore(30 * time.Millisecond)

	sess := entities.NewMinutesSession()
	store.Put(sess)
	time.Sleep(20 * time.Millisecond)
	store.Put(sess)
	time.Sleep(20 * time.Millisecond)

	if _, ok := store.Get(sess.ID.String()); !ok {
		t.Fatalf("expected refreshed session to still be live")
	}
}

func TestSessionStore_UnknownID(t *testing.T) {
	store := NewSessionStore(time.Minute)
	if _, ok := store.Get("nope"); ok {
		t.Fatalf("expected miss for unknown id")
	}
}

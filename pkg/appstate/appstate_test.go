package appstate_test

import (
	"errors"
	"testing"

	"mystical-alchemist/backend-api/pkg/appstate"
)

type memStore map[string]string

func (m memStore) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m memStore) Set(key, value string) { m[key] = value }

func (m memStore) Delete(key string) { delete(m, key) }

func testUser(tutorialDone bool) *appstate.User {
	return &appstate.User{
		ID:                1,
		Username:          "merlin",
		Email:             "merlin@example.com",
		Avatar:            "🧙‍♀️",
		Specialty:         "Potion Master",
		TutorialCompleted: tutorialDone,
		Stats:             appstate.Stats{Level: "Apprentice"},
	}
}

func TestRestore_EmptyStore(t *testing.T) {
	store := memStore{}
	s := appstate.Restore(store)
	if s.Screen != appstate.ScreenLanding {
		t.Errorf("Expected landing screen, got %s", s.Screen)
	}
	if s.IsAuthenticated {
		t.Error("Expected unauthenticated state")
	}
}

func TestRestore_CorruptUserClearsStore(t *testing.T) {
	store := memStore{}
	appstate.LoginSucceeded(store, "tok", testUser(true))
	store["alchemist_user"] = "{not json"

	s := appstate.Restore(store)
	if s.Screen != appstate.ScreenLanding {
		t.Errorf("Expected landing screen, got %s", s.Screen)
	}
	if _, ok := appstate.Token(store); ok {
		t.Error("Expected token cleared after corrupt cache")
	}
}

func TestRestore_RoutesByTutorialFlag(t *testing.T) {
	store := memStore{}
	appstate.LoginSucceeded(store, "tok", testUser(true))
	if s := appstate.Restore(store); s.Screen != appstate.ScreenLobby {
		t.Errorf("Expected lobby for completed tutorial, got %s", s.Screen)
	}

	store = memStore{}
	appstate.LoginSucceeded(store, "tok", testUser(false))
	if s := appstate.Restore(store); s.Screen != appstate.ScreenTutorial {
		t.Errorf("Expected tutorial for fresh account, got %s", s.Screen)
	}
}

func TestRegisterSucceeded_AlwaysTutorial(t *testing.T) {
	store := memStore{}
	s := appstate.RegisterSucceeded(store, "tok", testUser(false))
	if s.Screen != appstate.ScreenTutorial {
		t.Errorf("Expected tutorial after registration, got %s", s.Screen)
	}
	if !s.IsAuthenticated {
		t.Error("Expected authenticated state after registration")
	}
	if token, ok := appstate.Token(store); !ok || token != "tok" {
		t.Errorf("Expected persisted token, got %q", token)
	}
}

func TestTutorialCompleted(t *testing.T) {
	store := memStore{}
	s := appstate.RegisterSucceeded(store, "tok", testUser(false))

	s, err := appstate.TutorialCompleted(store, s)
	if err != nil {
		t.Fatalf("Failed to complete tutorial: %v", err)
	}
	if s.Screen != appstate.ScreenLobby {
		t.Errorf("Expected lobby after tutorial, got %s", s.Screen)
	}
	if !s.User.TutorialCompleted {
		t.Error("Expected tutorialCompleted flag set")
	}

	// The flag survives a restart
	if restored := appstate.Restore(store); restored.Screen != appstate.ScreenLobby {
		t.Errorf("Expected lobby after restore, got %s", restored.Screen)
	}
}

func TestTutorialCompleted_Unauthenticated(t *testing.T) {
	store := memStore{}
	s := appstate.Restore(store)
	if _, err := appstate.TutorialCompleted(store, s); !errors.Is(err, appstate.ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	store := memStore{}
	appstate.LoginSucceeded(store, "tok", testUser(true))

	s := appstate.Logout(store)
	if s.Screen != appstate.ScreenLanding {
		t.Errorf("Expected landing after logout, got %s", s.Screen)
	}
	if s.IsAuthenticated {
		t.Error("Expected unauthenticated state after logout")
	}
	if _, ok := appstate.Token(store); ok {
		t.Error("Expected token cleared after logout")
	}
	if restored := appstate.Restore(store); restored.Screen != appstate.ScreenLanding {
		t.Errorf("Expected restore to land on landing, got %s", restored.Screen)
	}
}

func TestNavigate_Unauthenticated(t *testing.T) {
	store := memStore{}
	s := appstate.Restore(store)

	s, err := appstate.Navigate(s, appstate.ScreenLogin)
	if err != nil {
		t.Fatalf("Failed to navigate to login: %v", err)
	}
	if s.Screen != appstate.ScreenLogin {
		t.Errorf("Expected login screen, got %s", s.Screen)
	}

	s, err = appstate.Navigate(s, appstate.ScreenRegister)
	if err != nil {
		t.Fatalf("Failed to navigate to register: %v", err)
	}

	if _, err := appstate.Navigate(s, appstate.ScreenLobby); !errors.Is(err, appstate.ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated for lobby, got %v", err)
	}
	if _, err := appstate.Navigate(s, appstate.ScreenGame); !errors.Is(err, appstate.ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated for game, got %v", err)
	}
}

func TestNavigate_Authenticated(t *testing.T) {
	store := memStore{}
	s := appstate.LoginSucceeded(store, "tok", testUser(true))

	for _, target := range []appstate.Screen{
		appstate.ScreenGame,
		appstate.ScreenLeaderboard,
		appstate.ScreenProfile,
		appstate.ScreenSettings,
		appstate.ScreenLobby,
	} {
		var err error
		s, err = appstate.Navigate(s, target)
		if err != nil {
			t.Fatalf("Failed to navigate to %s: %v", target, err)
		}
		if s.Screen != target {
			t.Errorf("Expected screen %s, got %s", target, s.Screen)
		}
	}

	// Auth screens are not reachable once logged in
	if _, err := appstate.Navigate(s, appstate.ScreenLogin); !errors.Is(err, appstate.ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition for login, got %v", err)
	}
}

func TestNavigate_UnknownScreen(t *testing.T) {
	store := memStore{}
	s := appstate.Restore(store)
	if _, err := appstate.Navigate(s, appstate.Screen("workshop")); !errors.Is(err, appstate.ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	store := memStore{}
	s := appstate.LoginSucceeded(store, "tok", testUser(true))

	updated := testUser(true)
	updated.Avatar = "🧪"
	updated.Stats.BestScore = 200
	updated.Stats.Level = "Expert"

	s, err := appstate.UpdateUser(store, s, updated)
	if err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}
	if s.User.Avatar != "🧪" {
		t.Errorf("Expected updated avatar, got %s", s.User.Avatar)
	}

	restored := appstate.Restore(store)
	if restored.User.Stats.BestScore != 200 {
		t.Errorf("Expected persisted bestScore 200, got %d", restored.User.Stats.BestScore)
	}
}

// Package appstate is the client-side screen router. It models the browser
// client's navigation as a typed state container with pure transition
// functions; persistence goes through an injected key-value store rather
// than a global.
package appstate

import (
	"encoding/json"
	"errors"
)

// Screen identifies one client screen.
type Screen string

const (
	ScreenLanding     Screen = "landing"
	ScreenLogin       Screen = "login"
	ScreenRegister    Screen = "register"
	ScreenTutorial    Screen = "tutorial"
	ScreenLobby       Screen = "lobby"
	ScreenGame        Screen = "game"
	ScreenLeaderboard Screen = "leaderboard"
	ScreenProfile     Screen = "profile"
	ScreenSettings    Screen = "settings"
)

var (
	ErrInvalidTransition = errors.New("invalid screen transition")
	ErrNotAuthenticated  = errors.New("not authenticated")
)

// Storage keys for the persisted credential cache.
const (
	tokenKey = "alchemist_token"
	userKey  = "alchemist_user"
)

// Stats mirrors the cumulative account stats returned by the API.
type Stats struct {
	BestScore   int64  `json:"bestScore"`
	Level       string `json:"level"`
	GamesPlayed int64  `json:"gamesPlayed"`
	TotalGold   int64  `json:"totalGold"`
	TotalScore  int64  `json:"totalScore"`
}

// User is the locally cached account view.
type User struct {
	ID                int64  `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	Avatar            string `json:"avatar"`
	Specialty         string `json:"specialty"`
	TutorialCompleted bool   `json:"tutorialCompleted"`
	Stats             Stats  `json:"stats"`
}

// State is the whole client application state.
type State struct {
	Screen          Screen
	User            *User
	IsAuthenticated bool
}

// Store is the persistence capability backing the credential cache. In the
// browser this is local storage; tests use an in-memory map.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// Restore rebuilds the state from the persisted credential cache at startup.
// A missing or unparseable cache clears the store and lands on the landing
// screen.
func Restore(store Store) State {
	token, ok := store.Get(tokenKey)
	if !ok || token == "" {
		return landing()
	}
	raw, ok := store.Get(userKey)
	if !ok {
		return landing()
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		store.Delete(tokenKey)
		store.Delete(userKey)
		return landing()
	}
	return State{
		Screen:          homeScreen(&user),
		User:            &user,
		IsAuthenticated: true,
	}
}

// LoginSucceeded persists the fresh credentials and routes to the lobby, or
// to the tutorial when it has not been completed yet.
func LoginSucceeded(store Store, token string, user *User) State {
	persist(store, token, user)
	return State{
		Screen:          homeScreen(user),
		User:            user,
		IsAuthenticated: true,
	}
}

// RegisterSucceeded persists the fresh credentials and always routes to the
// tutorial.
func RegisterSucceeded(store Store, token string, user *User) State {
	persist(store, token, user)
	return State{
		Screen:          ScreenTutorial,
		User:            user,
		IsAuthenticated: true,
	}
}

// TutorialCompleted marks the tutorial done, persists the updated user and
// routes to the lobby.
func TutorialCompleted(store Store, s State) (State, error) {
	if !s.IsAuthenticated || s.User == nil {
		return s, ErrNotAuthenticated
	}
	user := *s.User
	user.TutorialCompleted = true
	persistUser(store, &user)
	return State{
		Screen:          ScreenLobby,
		User:            &user,
		IsAuthenticated: true,
	}, nil
}

// UpdateUser replaces the cached user after a profile or stats change. The
// screen does not move.
func UpdateUser(store Store, s State, user *User) (State, error) {
	if !s.IsAuthenticated {
		return s, ErrNotAuthenticated
	}
	persistUser(store, user)
	s.User = user
	return s, nil
}

// Logout clears the credential cache and returns to the landing screen.
func Logout(store Store) State {
	store.Delete(tokenKey)
	store.Delete(userKey)
	return landing()
}

// Navigate performs an explicit user navigation. Auth-outcome transitions
// (login, register, tutorial completion, logout) have their own entry
// points and are not reachable through here.
func Navigate(s State, target Screen) (State, error) {
	if !validTarget(target) {
		return s, ErrInvalidTransition
	}
	if s.Screen == target {
		return s, nil
	}

	if !s.IsAuthenticated {
		// Only the pre-auth screens are reachable without credentials.
		switch target {
		case ScreenLanding, ScreenLogin, ScreenRegister:
			s.Screen = target
			return s, nil
		default:
			return s, ErrNotAuthenticated
		}
	}

	switch target {
	case ScreenLobby, ScreenGame, ScreenLeaderboard, ScreenProfile, ScreenSettings:
		s.Screen = target
		return s, nil
	default:
		// Authenticated users do not navigate back into the auth flow.
		return s, ErrInvalidTransition
	}
}

// Token returns the cached bearer token, if any.
func Token(store Store) (string, bool) {
	token, ok := store.Get(tokenKey)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func landing() State {
	return State{Screen: ScreenLanding}
}

// homeScreen is where a fresh login or restore lands.
func homeScreen(user *User) Screen {
	if user.TutorialCompleted {
		return ScreenLobby
	}
	return ScreenTutorial
}

func persist(store Store, token string, user *User) {
	store.Set(tokenKey, token)
	persistUser(store, user)
}

func persistUser(store Store, user *User) {
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	store.Set(userKey, string(raw))
}

func validTarget(target Screen) bool {
	switch target {
	case ScreenLanding, ScreenLogin, ScreenRegister, ScreenTutorial,
		ScreenLobby, ScreenGame, ScreenLeaderboard, ScreenProfile, ScreenSettings:
		return true
	}
	return false
}

package login

import (
	"slices"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// User is a demo account. Passwords are stored as bcrypt hashes; a real
// deployment would back this with a user database.
type User struct {
	Username     string
	PasswordHash []byte

	// KnownVisitorIDs lists browsers this account has logged in from before.
	// A correct password from an unknown browser is challenged, not trusted.
	KnownVisitorIDs []string
}

// UserStore looks up accounts and remembers the browsers they log in from.
type UserStore interface {
	Lookup(username string) (*User, error)
	RememberVisitor(username, visitorID string) error
}

// InMemoryUserStore holds demo accounts in memory.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]*User)}
}

// Seed adds an account with the given plaintext password, hashing it on the
// way in. Intended for demo and test setup.
func (s *InMemoryUserStore) Seed(username, password string, knownVisitorIDs ...string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = &User{
		Username:        username,
		PasswordHash:    hash,
		KnownVisitorIDs: slices.Clone(knownVisitorIDs),
	}
	return nil
}

func (s *InMemoryUserStore) Lookup(username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	clone := *user
	clone.KnownVisitorIDs = slices.Clone(user.KnownVisitorIDs)
	return &clone, nil
}

func (s *InMemoryUserStore) RememberVisitor(username, visitorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok || visitorID == "" {
		return nil
	}
	if !slices.Contains(user.KnownVisitorIDs, visitorID) {
		user.KnownVisitorIDs = append(user.KnownVisitorIDs, visitorID)
	}
	return nil
}

// CheckPassword reports whether the plaintext password matches the stored
// hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil
}

// KnowsVisitor reports whether the account has logged in from this browser
// before.
func (u *User) KnowsVisitor(visitorID string) bool {
	return slices.Contains(u.KnownVisitorIDs, visitorID)
}

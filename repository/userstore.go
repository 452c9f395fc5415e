package repository

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "sync"

    "github.com/circlearena/circlearena-backend/models"
)

var ErrUsernameTaken = errors.New("username already exists")

// UserStore persists registered accounts as a JSON array in one flat file.
// The whole file is read and rewritten per operation; user CRUD is a
// low-traffic request/response flow, not a gameplay path.
type UserStore struct {
    mu   sync.Mutex
    path string
}

func NewUserStore(path string) *UserStore {
    return &UserStore{path: path}
}

func (s *UserStore) load() ([]models.User, error) {
    b, err := os.ReadFile(s.path)
    if err != nil {
        if os.IsNotExist(err) {
            return []models.User{}, nil
        }
        return nil, err
    }
    var users []models.User
    if err := json.Unmarshal(b, &users); err != nil {
        return nil, fmt.Errorf("corrupt user file %s: %w", s.path, err)
    }
    return users, nil
}

func (s *UserStore) save(users []models.User) error {
    b, err := json.Marshal(users)
    if err != nil {
        return err
    }
    return os.WriteFile(s.path, b, 0644)
}

// Create adds a user with an already-hashed password. It fails with
// ErrUsernameTaken if the username is in use.
func (s *UserStore) Create(username, hashedPassword string) (models.User, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    users, err := s.load()
    if err != nil {
        return models.User{}, err
    }

    nextID := 1
    for _, u := range users {
        if u.Username == username {
            return models.User{}, ErrUsernameTaken
        }
        if u.ID >= nextID {
            nextID = u.ID + 1
        }
    }

    user := models.User{ID: nextID, Username: username, Password: hashedPassword}
    users = append(users, user)
    if err := s.save(users); err != nil {
        return models.User{}, err
    }
    return user, nil
}

// FindByUsername returns the stored user, if any.
func (s *UserStore) FindByUsername(username string) (models.User, bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    users, err := s.load()
    if err != nil {
        return models.User{}, false, err
    }
    for _, u := range users {
        if u.Username == username {
            return u, true, nil
        }
    }
    return models.User{}, false, nil
}

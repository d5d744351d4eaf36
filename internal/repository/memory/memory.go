// Package memory is an in-process implementation of the repository stores.
// It mirrors the postgres repositories' semantics, including unique
// constraints and cascading deletes, and backs service and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"folio/internal/models"
	"folio/internal/repository"
)

type Store struct {
	mu         sync.Mutex
	users      map[string]models.User
	portfolios map[string]models.Portfolio
	sections   map[string]models.Section
	projects   map[string]models.Project
	seq        int
	now        func() time.Time
}

func New() *Store {
	return &Store{
		users:      map[string]models.User{},
		portfolios: map[string]models.Portfolio{},
		sections:   map[string]models.Section{},
		projects:   map[string]models.Project{},
		now:        time.Now,
	}
}

func (s *Store) Users() *Users           { return &Users{s} }
func (s *Store) Portfolios() *Portfolios { return &Portfolios{s} }
func (s *Store) Sections() *Sections     { return &Sections{s} }
func (s *Store) Projects() *Projects     { return &Projects{s} }

// stamp returns a strictly increasing time so creation order stays stable.
func (s *Store) stamp() time.Time {
	s.seq++
	return s.now().Add(time.Duration(s.seq) * time.Microsecond)
}

func orEmptyObject(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func orEmptyList[T any](l []T) []T {
	if l == nil {
		return []T{}
	}
	return l
}

type Users struct{ s *Store }

func (u *Users) Create(_ context.Context, user models.User) (models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, existing := range u.s.users {
		if existing.Email == user.Email {
			return models.User{}, repository.ErrEmailTaken
		}
		if user.Username != nil && existing.Username != nil && *existing.Username == *user.Username {
			return models.User{}, repository.ErrUsernameTaken
		}
	}
	user.CreatedAt = u.s.stamp()
	user.UpdatedAt = user.CreatedAt
	u.s.users[user.ID] = user
	return user, nil
}

func (u *Users) GetByID(_ context.Context, id string) (models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (u *Users) find(match func(models.User) bool) (models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, user := range u.s.users {
		if match(user) {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (u *Users) FindByEmail(_ context.Context, email string) (models.User, error) {
	return u.find(func(user models.User) bool { return user.Email == email })
}

func (u *Users) FindByUsername(_ context.Context, username string) (models.User, error) {
	return u.find(func(user models.User) bool { return user.Username != nil && *user.Username == username })
}

func (u *Users) GetPrincipal(ctx context.Context, id string) (models.Principal, error) {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return models.Principal{}, err
	}
	return user.Principal(), nil
}

func (u *Users) UpdatePassword(_ context.Context, id string, passwordHash []byte) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = u.s.stamp()
	u.s.users[id] = user
	return nil
}

func (u *Users) UpdateProfile(_ context.Context, id string, name string, username string) (models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	for _, other := range u.s.users {
		if other.ID != id && other.Username != nil && *other.Username == username {
			return models.User{}, repository.ErrUsernameTaken
		}
	}
	user.Name = name
	user.Username = &username
	user.UpdatedAt = u.s.stamp()
	u.s.users[id] = user
	return user, nil
}

// Delete cascades to the user's portfolios and their children.
func (u *Users) Delete(_ context.Context, id string) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if _, ok := u.s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(u.s.users, id)
	for pid, p := range u.s.portfolios {
		if p.UserID == id {
			u.s.deletePortfolio(pid)
		}
	}
	return nil
}

func (u *Users) List(_ context.Context, limit, offset int) ([]models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	users := make([]models.User, 0, len(u.s.users))
	for _, user := range u.s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	if offset >= len(users) {
		return []models.User{}, nil
	}
	users = users[offset:]
	if limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

func (s *Store) deletePortfolio(id string) {
	delete(s.portfolios, id)
	for sid, section := range s.sections {
		if section.PortfolioID == id {
			delete(s.sections, sid)
		}
	}
	for pid, project := range s.projects {
		if project.PortfolioID == id {
			delete(s.projects, pid)
		}
	}
}

package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	users     map[string]*domain.User
	order     []string
	createErr error
	getErr    error
	updateErr error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// Add seeds a user directly, bypassing uniqueness checks.
func (m *MockUserRepository) Add(user *domain.User) {
	m.users[user.ID] = user
	m.order = append(m.order, user.ID)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if domain.NormalizeEmail(u.Email) == domain.NormalizeEmail(user.Email) {
			return domain.ErrEmailTaken
		}
		if domain.NormalizeUsername(u.Username) == domain.NormalizeUsername(user.Username) {
			return domain.ErrUsernameTaken
		}
	}
	m.Add(user)
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if domain.NormalizeEmail(u.Email) == domain.NormalizeEmail(email) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if domain.NormalizeUsername(u.Username) == domain.NormalizeUsername(username) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.User], error) {
	all, _ := m.ListAll(ctx)
	var filtered []*domain.User
	needle := strings.ToLower(opts.Search)
	for _, u := range all {
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Username), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		filtered = append(filtered, u)
	}
	total := int64(len(filtered))
	if opts.Offset > len(filtered) {
		filtered = nil
	} else {
		filtered = filtered[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(filtered) {
		filtered = filtered[:opts.Limit]
	}
	return &repository.ListResult[domain.User]{
		Items:  filtered,
		Total:  total,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

func (m *MockUserRepository) ListAll(ctx context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(m.order))
	for _, id := range m.order {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (m *MockUserRepository) ReplaceAll(ctx context.Context, users []*domain.User) error {
	m.users = make(map[string]*domain.User)
	m.order = nil
	for _, u := range users {
		m.Add(u)
	}
	return nil
}

// MockFrameRepository is a mock implementation of repository.FrameRepository.
type MockFrameRepository struct {
	frames    map[string]*domain.Frame
	order     []string
	createErr error
}

func NewMockFrameRepository() *MockFrameRepository {
	return &MockFrameRepository{
		frames: make(map[string]*domain.Frame),
	}
}

func (m *MockFrameRepository) Add(frame *domain.Frame) {
	m.frames[frame.ID] = frame
	m.order = append(m.order, frame.ID)
}

func (m *MockFrameRepository) Create(ctx context.Context, frame *domain.Frame) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.Add(frame)
	return nil
}

func (m *MockFrameRepository) GetByID(ctx context.Context, id string) (*domain.Frame, error) {
	if f, ok := m.frames[id]; ok {
		return f, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockFrameRepository) List(ctx context.Context) ([]*domain.Frame, error) {
	out := make([]*domain.Frame, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.frames[id])
	}
	return out, nil
}

func (m *MockFrameRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.frames)), nil
}

func (m *MockFrameRepository) ReplaceAll(ctx context.Context, frames []*domain.Frame) error {
	m.frames = make(map[string]*domain.Frame)
	m.order = nil
	for _, f := range frames {
		m.Add(f)
	}
	return nil
}

// MockSubmissionRepository is a mock implementation of repository.SubmissionRepository.
type MockSubmissionRepository struct {
	subs      map[string]*domain.GameSubmission
	order     []string
	createErr error
}

func NewMockSubmissionRepository() *MockSubmissionRepository {
	return &MockSubmissionRepository{
		subs: make(map[string]*domain.GameSubmission),
	}
}

func (m *MockSubmissionRepository) Add(sub *domain.GameSubmission) {
	m.subs[sub.ID] = sub
	m.order = append(m.order, sub.ID)
}

func (m *MockSubmissionRepository) Create(ctx context.Context, sub *domain.GameSubmission) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.Add(sub)
	return nil
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, id string) (*domain.GameSubmission, error) {
	if s, ok := m.subs[id]; ok {
		return s, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockSubmissionRepository) Update(ctx context.Context, sub *domain.GameSubmission) error {
	if _, ok := m.subs[sub.ID]; !ok {
		return repository.ErrNotFound
	}
	m.subs[sub.ID] = sub
	return nil
}

func (m *MockSubmissionRepository) List(ctx context.Context, status domain.SubmissionStatus) ([]*domain.GameSubmission, error) {
	var out []*domain.GameSubmission
	for _, id := range m.order {
		s := m.subs[id]
		if status == "" || s.Status == status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockSubmissionRepository) ListBySubmitter(ctx context.Context, submitterID string) ([]*domain.GameSubmission, error) {
	var out []*domain.GameSubmission
	for _, id := range m.order {
		if m.subs[id].SubmitterID == submitterID {
			out = append(out, m.subs[id])
		}
	}
	return out, nil
}

func (m *MockSubmissionRepository) ReplaceAll(ctx context.Context, subs []*domain.GameSubmission) error {
	m.subs = make(map[string]*domain.GameSubmission)
	m.order = nil
	for _, s := range subs {
		m.Add(s)
	}
	return nil
}

// MockCache is an in-memory cache for tests. TTLs are accepted but
// never enforced.
type MockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, repository.ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *MockCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}

var (
	_ repository.UserRepository       = (*MockUserRepository)(nil)
	_ repository.FrameRepository      = (*MockFrameRepository)(nil)
	_ repository.SubmissionRepository = (*MockSubmissionRepository)(nil)
	_ repository.Cache                = (*MockCache)(nil)
)

package handler

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
	"github.com/galaxy-hub/galaxy/internal/service"
)

// In-memory repositories backing the router under test.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	order []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) add(u *domain.User) {
	f.users[u.ID] = u
	f.order = append(f.order, u.ID)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if domain.NormalizeEmail(u.Email) == domain.NormalizeEmail(user.Email) {
			return domain.ErrEmailTaken
		}
		if domain.NormalizeUsername(u.Username) == domain.NormalizeUsername(user.Username) {
			return domain.ErrUsernameTaken
		}
	}
	f.add(user)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if domain.NormalizeEmail(u.Email) == domain.NormalizeEmail(email) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if domain.NormalizeUsername(u.Username) == domain.NormalizeUsername(username) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.User], error) {
	all, _ := f.ListAll(ctx)
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
	if opts.Offset < len(filtered) {
		filtered = filtered[opts.Offset:]
	} else {
		filtered = nil
	}
	if opts.Limit > 0 && opts.Limit < len(filtered) {
		filtered = filtered[:opts.Limit]
	}
	return &repository.ListResult[domain.User]{Items: filtered, Total: total, Offset: opts.Offset, Limit: opts.Limit}, nil
}

func (f *fakeUserRepo) ListAll(ctx context.Context) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.User, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.users[id])
	}
	return out, nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := f.GetByUsername(ctx, username)
	return err == nil, nil
}

func (f *fakeUserRepo) ReplaceAll(ctx context.Context, users []*domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = make(map[string]*domain.User)
	f.order = nil
	for _, u := range users {
		f.add(u)
	}
	return nil
}

type fakeFrameRepo struct {
	mu     sync.Mutex
	frames map[string]*domain.Frame
	order  []string
}

func newFakeFrameRepo() *fakeFrameRepo {
	return &fakeFrameRepo{frames: make(map[string]*domain.Frame)}
}

func (f *fakeFrameRepo) Create(ctx context.Context, frame *domain.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames[frame.ID] = frame
	f.order = append(f.order, frame.ID)
	return nil
}

func (f *fakeFrameRepo) GetByID(ctx context.Context, id string) (*domain.Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fr, ok := f.frames[id]; ok {
		return fr, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeFrameRepo) List(ctx context.Context) ([]*domain.Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Frame, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.frames[id])
	}
	return out, nil
}

func (f *fakeFrameRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.frames)), nil
}

func (f *fakeFrameRepo) ReplaceAll(ctx context.Context, frames []*domain.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = make(map[string]*domain.Frame)
	f.order = nil
	for _, fr := range frames {
		f.frames[fr.ID] = fr
		f.order = append(f.order, fr.ID)
	}
	return nil
}

type fakeSubmissionRepo struct {
	mu    sync.Mutex
	subs  map[string]*domain.GameSubmission
	order []string
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{subs: make(map[string]*domain.GameSubmission)}
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, sub *domain.GameSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[sub.ID] = sub
	f.order = append(f.order, sub.ID)
	return nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id string) (*domain.GameSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.subs[id]; ok {
		return s, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSubmissionRepo) Update(ctx context.Context, sub *domain.GameSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[sub.ID]; !ok {
		return repository.ErrNotFound
	}
	f.subs[sub.ID] = sub
	return nil
}

func (f *fakeSubmissionRepo) List(ctx context.Context, status domain.SubmissionStatus) ([]*domain.GameSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.GameSubmission
	for _, id := range f.order {
		if status == "" || f.subs[id].Status == status {
			out = append(out, f.subs[id])
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) ListBySubmitter(ctx context.Context, submitterID string) ([]*domain.GameSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.GameSubmission
	for _, id := range f.order {
		if f.subs[id].SubmitterID == submitterID {
			out = append(out, f.subs[id])
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) ReplaceAll(ctx context.Context, subs []*domain.GameSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = make(map[string]*domain.GameSubmission)
	f.order = nil
	for _, s := range subs {
		f.subs[s.ID] = s
		f.order = append(f.order, s.ID)
	}
	return nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, repository.ErrCacheMiss
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = value
	return true, nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func (c *fakeCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}

// testEnv wires the full router against in-memory backends.
type testEnv struct {
	router http.Handler
	users  *fakeUserRepo
	frames *fakeFrameRepo
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	frames := newFakeFrameRepo()
	submissions := newFakeSubmissionRepo()
	cache := newFakeCache()
	logger := zerolog.Nop()

	sessionSvc := service.NewSessionService(cache, time.Hour, logger)
	accountSvc := service.NewAccountService(users, sessionSvc, logger)
	storeSvc := service.NewStoreService(users, frames, cache, logger)
	socialSvc := service.NewSocialService(users, logger)
	submissionSvc := service.NewSubmissionService(submissions, logger)
	adminSvc := service.NewAdminService(users, frames, sessionSvc, cache, logger)

	router := NewRouter(RouterConfig{
		Accounts:    accountSvc,
		Sessions:    sessionSvc,
		Store:       storeSvc,
		Social:      socialSvc,
		Submissions: submissionSvc,
		Admin:       adminSvc,
		Logger:      logger,
	})

	return &testEnv{router: router, users: users, frames: frames}
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/platewatch/api/internal/model"
	"github.com/platewatch/api/internal/oauth"
	"gorm.io/gorm"
)

// In-memory fakes for the service collaborators. They mimic the store
// error contract: gorm.ErrRecordNotFound on misses, gorm.ErrDuplicatedKey
// on unique violations.

type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*model.User
	cars   *fakeCarStore
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint]*model.User)}
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) GetProfile(ctx context.Context, id uint) (*model.User, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	s.nextID++
	user.ID = s.nextID
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) CreateWithCar(ctx context.Context, user *model.User, car *model.Car) error {
	if err := s.Create(ctx, user); err != nil {
		return err
	}
	car.OwnerID = user.ID
	if s.cars != nil {
		return s.cars.Create(ctx, car)
	}
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id uint, hashedPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Password = hashedPassword
	return nil
}

func (s *fakeUserStore) UpdateLastLogin(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.LastLogin = time.Now()
	return nil
}

func (s *fakeUserStore) UpdateRefreshTokenHash(_ context.Context, id uint, hash *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.RefreshTokenHash = hash
	return nil
}

type fakeCarStore struct {
	mu     sync.Mutex
	nextID uint
	cars   map[uint]*model.Car
}

func newFakeCarStore() *fakeCarStore {
	return &fakeCarStore{cars: make(map[uint]*model.Car)}
}

func (s *fakeCarStore) GetByID(_ context.Context, id uint) (*model.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	car, ok := s.cars[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *car
	return &copied, nil
}

func (s *fakeCarStore) GetByPlate(_ context.Context, plate string) (*model.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, car := range s.cars {
		if car.LicensePlate == plate {
			copied := *car
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeCarStore) ListByOwner(_ context.Context, ownerID uint) ([]model.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Car
	for _, car := range s.cars {
		if car.OwnerID == ownerID {
			out = append(out, *car)
		}
	}
	return out, nil
}

func (s *fakeCarStore) Create(_ context.Context, car *model.Car) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.cars {
		if existing.LicensePlate == car.LicensePlate {
			return gorm.ErrDuplicatedKey
		}
	}
	s.nextID++
	car.ID = s.nextID
	copied := *car
	s.cars[car.ID] = &copied
	return nil
}

func (s *fakeCarStore) Update(_ context.Context, car *model.Car) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cars[car.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, existing := range s.cars {
		if existing.ID != car.ID && existing.LicensePlate == car.LicensePlate {
			return gorm.ErrDuplicatedKey
		}
	}
	copied := *car
	s.cars[car.ID] = &copied
	return nil
}

func (s *fakeCarStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cars[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.cars, id)
	return nil
}

type fakeReportStore struct {
	mu      sync.Mutex
	nextID  uint
	reports map[uint]*model.Report
	queries int
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: make(map[uint]*model.Report)}
}

func (s *fakeReportStore) Create(_ context.Context, report *model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	report.ID = s.nextID
	report.CreatedAt = time.Now()
	copied := *report
	s.reports[report.ID] = &copied
	return nil
}

func (s *fakeReportStore) GetByID(_ context.Context, id uint) (*model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *report
	return &copied, nil
}

func (s *fakeReportStore) ListByPlates(_ context.Context, plates []string) ([]model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	var out []model.Report
	for _, report := range s.reports {
		for _, plate := range plates {
			if report.LicensePlate == plate {
				out = append(out, *report)
				break
			}
		}
	}
	return out, nil
}

// ListByPlate folds case and whitespace on both sides, like the SQL
// LOWER(TRIM(...)) comparison it stands in for.
func (s *fakeReportStore) ListByPlate(_ context.Context, plate string) ([]model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	want := strings.ToLower(strings.TrimSpace(plate))
	var out []model.Report
	for _, report := range s.reports {
		if strings.ToLower(strings.TrimSpace(report.LicensePlate)) == want {
			out = append(out, *report)
		}
	}
	return out, nil
}

func (s *fakeReportStore) ListRecent(_ context.Context, limit int) ([]model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	var out []model.Report
	for _, report := range s.reports {
		out = append(out, *report)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeReportStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.reports, id)
	return nil
}

func (s *fakeReportStore) queryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries
}

// fakeCache implements the cache client with a controllable clock so TTL
// expiry can be tested without sleeping.
type fakeCache struct {
	mu      sync.Mutex
	now     time.Time
	entries map[string]fakeCacheEntry
}

type fakeCacheEntry struct {
	data    []byte
	expires time.Time
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		now:     time.Now(),
		entries: make(map[string]fakeCacheEntry),
	}
}

func (c *fakeCache) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || c.now.After(entry.expires) {
		return false, nil
	}
	return true, json.Unmarshal(entry.data, dest)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = fakeCacheEntry{data: data, expires: c.now.Add(ttl)}
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) DeleteByPattern(context.Context, string) error { return nil }
func (c *fakeCache) Ping(context.Context) error                    { return nil }
func (c *fakeCache) Stats(context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}
func (c *fakeCache) Close() error { return nil }

type fakeStorage struct {
	mu       sync.Mutex
	nextID   int
	deleted  []string
	failURLs map[string]bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{failURLs: make(map[string]bool)}
}

func (s *fakeStorage) Upload(_ context.Context, filename, _ string, _ io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return fmt.Sprintf("https://cdn.example.com/reports/%d-%s", s.nextID, filename), nil
}

func (s *fakeStorage) Delete(_ context.Context, objectURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failURLs[objectURL] {
		return errors.New("storage unavailable")
	}
	s.deleted = append(s.deleted, objectURL)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct {
	to   string
	name string
	url  string
}

func (m *fakeMailer) SendPasswordReset(to, name, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, name: name, url: resetURL})
	return nil
}

type fakeVerifier struct {
	profile *oauth.Profile
	err     error
}

func (v *fakeVerifier) Verify(context.Context, string) (*oauth.Profile, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.profile, nil
}

package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"carpool/internal/apperr"
	"carpool/internal/model"
)

// memStore mirrors the relational constraints of the real stores in memory.
type memStore struct {
	mu      sync.Mutex
	cfg     model.Config
	users   map[int]model.User
	cars    map[int]model.Car
	edges   map[int]int // user_id -> car_id
	nextUID int
	nextCID int
	clock   time.Time

	pingErr error
	failOn  map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		cfg:    model.Config{ID: model.ConfigID, PriceWithPassCents: 500, PriceWithoutPassCents: 300, MaxCarCapacity: 4},
		users:  map[int]model.User{},
		cars:   map[int]model.Car{},
		edges:  map[int]int{},
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		failOn: map[string]error{},
	}
}

func (m *memStore) fail(op string) error { return m.failOn[op] }

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) GetConfig(context.Context) (*model.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetConfig"); err != nil {
		return nil, err
	}
	c := m.cfg
	return &c, nil
}

func (m *memStore) UpdateConfig(_ context.Context, c *model.Config) (*model.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = *c
	out := m.cfg
	return &out, nil
}

func (m *memStore) CreateUser(_ context.Context, u *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.users {
		if x.Name == u.Name {
			return nil, apperr.ErrUnique
		}
	}
	m.nextUID++
	m.clock = m.clock.Add(time.Second)
	u.ID, u.CreatedAt = m.nextUID, m.clock
	m.users[u.ID] = *u
	return u, nil
}

func (m *memStore) GetUser(_ context.Context, id int) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.ErrNoRows
	}
	return &u, nil
}

func (m *memStore) ListUsers(context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sortedUsers(func(model.User) bool { return true })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) unassignedRider(u model.User) bool {
	if u.IsDriver {
		return false
	}
	_, seated := m.edges[u.ID]
	return !seated
}

func (m *memStore) ListUnassignedRiders(context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sortedUsers(m.unassignedRider)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) ListUnassignedRiderIDs(context.Context) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int
	for _, u := range m.sortedUsers(m.unassignedRider) {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (m *memStore) sortedUsers(keep func(model.User) bool) []model.User {
	var out []model.User
	for _, u := range m.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) DeleteUser(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cars {
		if c.DriverID == id {
			return apperr.ErrForeignKey
		}
	}
	delete(m.users, id)
	delete(m.edges, id)
	return nil
}

func (m *memStore) CreateCar(_ context.Context, c *model.Car) (*model.Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[c.DriverID]; !ok {
		return nil, apperr.ErrForeignKey
	}
	for _, x := range m.cars {
		if x.DriverID == c.DriverID {
			return nil, apperr.ErrUnique
		}
	}
	m.nextCID++
	m.clock = m.clock.Add(time.Second)
	c.ID, c.CreatedAt = m.nextCID, m.clock
	m.cars[c.ID] = *c
	return c, nil
}

func (m *memStore) GetCar(_ context.Context, id int) (*model.Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cars[id]
	if !ok {
		return nil, apperr.ErrNoRows
	}
	return &c, nil
}

func (m *memStore) GetCarByDriver(_ context.Context, driverID int) (*model.Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cars {
		if c.DriverID == driverID {
			return &c, nil
		}
	}
	return nil, apperr.ErrNoRows
}

func (m *memStore) ListCars(context.Context) ([]model.Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListCars"); err != nil {
		return nil, err
	}
	var out []model.Car
	for _, c := range m.cars {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) DeleteCar(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cars, id)
	for u, c := range m.edges {
		if c == id {
			delete(m.edges, u)
		}
	}
	return nil
}

func (m *memStore) ListPassengers(_ context.Context, carID int) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for u, c := range m.edges {
		if c == carID {
			out = append(out, m.users[u])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) countLocked(carID int) int {
	n := 0
	for _, c := range m.edges {
		if c == carID {
			n++
		}
	}
	return n
}

func (m *memStore) CountPassengers(_ context.Context, carID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked(carID), nil
}

func (m *memStore) IsAssigned(_ context.Context, userID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.edges[userID]
	return ok, nil
}

func (m *memStore) AddPassenger(_ context.Context, carID, userID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("AddPassenger"); err != nil {
		return false, err
	}
	car, ok := m.cars[carID]
	if !ok {
		return false, nil
	}
	if _, ok := m.users[userID]; !ok {
		return false, apperr.ErrForeignKey
	}
	if _, ok := m.edges[userID]; ok {
		return false, apperr.ErrUnique
	}
	if 1+m.countLocked(carID) >= car.Capacity {
		return false, nil
	}
	m.edges[userID] = carID
	return true, nil
}

func (m *memStore) RemovePassenger(_ context.Context, carID, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.edges[userID] == carID {
		delete(m.edges, userID)
	}
	return nil
}

func (m *memStore) Purge(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = map[int]model.User{}
	m.cars = map[int]model.Car{}
	m.edges = map[int]int{}
	m.nextUID, m.nextCID = 0, 0
	return nil
}

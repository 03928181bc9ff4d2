package firewall

import (
	"context"
	"fmt"
	"sync"
	"wafblock/internal/types"
)

// memStore is an in-memory control plane that enforces lock tokens the way
// the firewall service does.
type memStore struct {
	mu        sync.Mutex
	list      types.ManagedList
	version   int
	reads     int
	writes    int
	readErr   error
	writeErr  error
	onceAfter func(s *memStore)
}

func newMemStore(key types.ListKey, version types.AddressVersion, addresses ...string) *memStore {
	s := &memStore{
		list: types.ManagedList{
			Key:            key,
			Description:    "blocked by automation",
			AddressVersion: version,
			Addresses:      append([]string{}, addresses...),
		},
		version: 1,
	}
	s.list.LockToken = s.token()
	return s
}

func (s *memStore) token() string {
	return fmt.Sprintf("T%d", s.version)
}

func (s *memStore) ReadList(_ context.Context, key types.ListKey) (types.ManagedList, error) {
	s.mu.Lock()
	s.reads++
	if s.readErr != nil {
		s.mu.Unlock()
		return types.ManagedList{}, s.readErr
	}
	if key != s.list.Key {
		s.mu.Unlock()
		return types.ManagedList{}, types.NewError("get ip set", types.ErrNotFound, nil)
	}

	list := s.list
	list.Addresses = append([]string{}, s.list.Addresses...)
	hook := s.onceAfter
	s.onceAfter = nil
	s.mu.Unlock()

	// runs after the snapshot is taken, like a writer racing this caller
	if hook != nil {
		hook(s)
	}
	return list, nil
}

func (s *memStore) WriteList(_ context.Context, list types.ManagedList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	if list.LockToken != s.token() {
		return types.NewError("update ip set", types.ErrConflict, fmt.Errorf("stale token %s", list.LockToken))
	}
	s.writes++
	s.apply(list.Addresses)
	return nil
}

// externalWrite simulates another actor updating the list.
func (s *memStore) externalWrite(addresses ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(append(append([]string{}, s.list.Addresses...), addresses...))
}

func (s *memStore) apply(addresses []string) {
	s.list.Addresses = append([]string{}, addresses...)
	s.version++
	s.list.LockToken = s.token()
}

func (s *memStore) addresses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.list.Addresses...)
}

// factory returns a StoreFactory serving s and recording requested regions.
func (s *memStore) factory(regions *[]string) StoreFactory {
	return func(_ context.Context, region string) (ListStore, error) {
		if regions != nil {
			*regions = append(*regions, region)
		}
		return s, nil
	}
}

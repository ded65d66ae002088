// Package store keeps the last submitted values of every form in a
// process-wide map keyed by form name. Buckets are only ever replaced whole:
// SetForm overwrites a bucket with a copy of the supplied values and ResetForm
// empties it. There is no merge and no partial update.
package store

import (
	"sort"
	"strings"
	"sync"
)

// Names of the buckets registered by NewDefault.
const (
	FormBasic         = "basic"
	FormSubmitHandler = "submit-handler"
	FormCustomSlots   = "custom-slots"
)

// MutationType names a committed change.
type MutationType string

const (
	MutationSetForm   MutationType = "SET_FORM"
	MutationResetForm MutationType = "RESET_FORM"
)

// Mutation describes a committed change and the bucket content after it.
type Mutation struct {
	Type     MutationType
	FormName string
	Data     map[string]any
}

// Subscriber observes committed mutations. Subscribers run synchronously, in
// commit order, after the state lock is released, so they may read the store.
// They must not mutate it. Each receives its own copy of the data.
type Subscriber func(Mutation)

// Store is safe for concurrent use. The zero value is an empty store with no
// registered buckets.
type Store struct {
	// commitMu serializes commits with their notifications.
	commitMu    sync.Mutex
	mu          sync.RWMutex
	forms       map[string]map[string]any
	subscribers []Subscriber
}

// New returns a store pre-registering the supplied form names with empty
// buckets.
func New(names ...string) *Store {
	s := &Store{forms: make(map[string]map[string]any, len(names))}
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			s.forms[name] = map[string]any{}
		}
	}
	return s
}

// NewDefault returns a store with the demo buckets registered.
func NewDefault() *Store {
	return New(FormBasic, FormSubmitHandler, FormCustomSlots)
}

// Subscribe registers fn for every later mutation.
func (s *Store) Subscribe(fn Subscriber) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// SetForm replaces the named bucket with a copy of data.
func (s *Store) SetForm(name string, data map[string]any) {
	s.commit(MutationSetForm, name, copyValues(data))
}

// ResetForm empties the named bucket.
func (s *Store) ResetForm(name string) {
	s.commit(MutationResetForm, name, map[string]any{})
}

// UpdateForm is the action form of SetForm.
func (s *Store) UpdateForm(name string, data map[string]any) {
	s.SetForm(name, data)
}

// Form returns a copy of the named bucket. Unknown names yield an empty,
// non-nil map.
func (s *Store) Form(name string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.forms[name]
	if !ok {
		return map[string]any{}
	}
	return copyValues(bucket)
}

// Has reports whether a bucket exists for name, even if it is empty.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.forms[name]
	return ok
}

// Names lists known buckets in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.forms))
	for name := range s.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot copies every bucket.
func (s *Store) Snapshot() map[string]map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]map[string]any, len(s.forms))
	for name, bucket := range s.forms {
		out[name] = copyValues(bucket)
	}
	return out
}

func (s *Store) commit(kind MutationType, name string, bucket map[string]any) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	if s.forms == nil {
		s.forms = make(map[string]map[string]any)
	}
	s.forms[name] = bucket
	subscribers := append([]Subscriber(nil), s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(Mutation{Type: kind, FormName: name, Data: copyValues(bucket)})
	}
}

func copyValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = deepCopy(value)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return copyValues(typed)
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}

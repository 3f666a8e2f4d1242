package metadata

// ChangeKind identifies what kind of mutation a ChangeEvent describes.
type ChangeKind string

const (
	FileCreated    ChangeKind = "file_created"
	FileDeleted    ChangeKind = "file_deleted"
	FileShared     ChangeKind = "file_shared"
	AccountUpdated ChangeKind = "account_updated"
)

// ChangeEvent describes a committed mutation to an owner's records.
type ChangeEvent struct {
	OwnerID string
	Kind    ChangeKind
	FileID  string
}

// Subscribe registers a callback for mutations to the given owner's records
// and returns an unsubscribe function. Delivery is asynchronous and
// best-effort: events committed after unsubscribe may still arrive.
func (s *Store) Subscribe(ownerID string, onChange func(ChangeEvent)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if s.subs[ownerID] == nil {
		s.subs[ownerID] = make(map[int]func(ChangeEvent))
	}
	id := s.nextID
	s.nextID++
	s.subs[ownerID][id] = onChange

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs[ownerID], id)
		if len(s.subs[ownerID]) == 0 {
			delete(s.subs, ownerID)
		}
	}
}

// notify fans a change event out to the owner's subscribers.
func (s *Store) notify(event ChangeEvent) {
	s.subMu.Lock()
	callbacks := make([]func(ChangeEvent), 0, len(s.subs[event.OwnerID]))
	for _, cb := range s.subs[event.OwnerID] {
		callbacks = append(callbacks, cb)
	}
	s.subMu.Unlock()

	for _, cb := range callbacks {
		go cb(event)
	}
}

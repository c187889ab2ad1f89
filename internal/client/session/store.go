package session

import (
	"context"
	"sync"

	"github.com/moncraft/portal/internal/client/models"
	"github.com/moncraft/portal/internal/logging"
)

// CredentialRepository persists the bearer credential across process
// restarts. Only the Store writes to it; the Bootstrapper reads it once at
// startup.
type CredentialRepository interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, credential string) error
	Delete(ctx context.Context) error
}

// Store holds the current Session and serializes every transition.
//
// Durable credential storage and in-memory state are updated inside the same
// transition, never one without the other, so the UI and the persisted
// credential cannot disagree about who is logged in.
//
// Each transition bumps an internal generation counter. Resolution attempts
// (bootstrap, login) capture the generation when they start and apply their
// result only if no other transition happened in between; a stale result can
// therefore never resurrect a session that was cleared while it was in
// flight.
type Store struct {
	mu      sync.Mutex
	cur     Session
	gen     uint64
	subs    map[int]func(Session)
	nextSub int

	creds CredentialRepository
	log   logging.Logger
}

// NewStore returns a Store in the Resolved/empty state.
func NewStore(creds CredentialRepository, log logging.Logger) *Store {
	return &Store{
		cur:   Session{State: Resolved},
		subs:  make(map[int]func(Session)),
		creds: creds,
		log:   log,
	}
}

// Get returns the current snapshot. It never blocks on I/O.
func (s *Store) Get() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Credential implements api.CredentialSource: the gateway reads the current
// bearer token through this method on every outgoing request.
func (s *Store) Credential() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.Credential, s.cur.Credential != ""
}

// Generation returns the current transition counter. Resolution attempts
// capture it before their network round-trip.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Subscribe registers fn to be invoked after every state transition and
// returns an unsubscribe handle. fn runs outside the store lock, so it may
// read from or unsubscribe from the store.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// SetAuthenticated atomically installs a credential and its resolved identity
// and persists the credential. On persistence failure the in-memory state is
// left untouched and the error is returned.
func (s *Store) SetAuthenticated(ctx context.Context, credential string, identity *models.Identity) error {
	s.mu.Lock()
	err := s.setAuthenticatedLocked(ctx, credential, identity)
	s.unlockAndNotify(err == nil)
	return err
}

// SetAuthenticatedIf behaves like SetAuthenticated but applies only when no
// other transition happened since the caller captured gen. It reports whether
// the result was installed; (false, nil) means the result was stale and
// discarded.
func (s *Store) SetAuthenticatedIf(ctx context.Context, gen uint64, credential string, identity *models.Identity) (bool, error) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.log.Debug(ctx, "discarding stale session resolution", "have", s.gen, "want", gen)
		return false, nil
	}
	err := s.setAuthenticatedLocked(ctx, credential, identity)
	s.unlockAndNotify(err == nil)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) setAuthenticatedLocked(ctx context.Context, credential string, identity *models.Identity) error {
	if err := s.creds.Save(ctx, credential); err != nil {
		return err
	}
	s.cur = Session{Credential: credential, Identity: identity, State: Resolved}
	s.gen++
	return nil
}

// Clear removes credential and identity atomically. It is the single choke
// point for logging the user out: explicit logout, bootstrap failure, and the
// gateway's unauthorized hook all land here.
//
// Clear is idempotent: repeated calls converge on the same empty session and
// fire at most one notification per actual state change. The generation is
// bumped regardless, so any in-flight resolution started before the call is
// invalidated even when the session was already empty.
//
// The in-memory session is cleared even if erasing the persisted credential
// fails; the error is returned for logging, but logout always succeeds from
// the caller's point of view.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	err := s.creds.Delete(ctx)

	changed := s.cur.Credential != "" || s.cur.Identity != nil || s.cur.State != Resolved
	s.cur = Session{State: Resolved}
	s.gen++
	s.unlockAndNotify(changed)
	return err
}

// BeginResolving installs a persisted credential and marks the session as
// Resolving. It returns the generation tag the resolution attempt must
// present to SetAuthenticatedIf / EndResolvingIf when it completes.
func (s *Store) BeginResolving(credential string) uint64 {
	s.mu.Lock()
	s.cur = Session{Credential: credential, State: Resolving}
	s.gen++
	gen := s.gen
	s.unlockAndNotify(true)
	return gen
}

// EndResolvingIf settles a failed resolution attempt without touching durable
// storage: the in-memory session becomes empty and Resolved, but the
// persisted credential survives for a later restart. Used when bootstrap
// fails for reasons other than credential rejection.
func (s *Store) EndResolvingIf(ctx context.Context, gen uint64) bool {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.log.Debug(ctx, "discarding stale resolution failure", "have", s.gen, "want", gen)
		return false
	}
	s.cur = Session{State: Resolved}
	s.gen++
	s.unlockAndNotify(true)
	return true
}

// unlockAndNotify releases the lock and, when notify is set, invokes every
// subscriber with the snapshot taken while still locked. Transitions are
// serialized by the mutex; callbacks observe them in order.
func (s *Store) unlockAndNotify(notify bool) {
	snapshot := s.cur
	var fns []func(Session)
	if notify {
		fns = make([]func(Session), 0, len(s.subs))
		for _, fn := range s.subs {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

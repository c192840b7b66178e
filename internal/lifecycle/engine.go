// Package lifecycle validates status changes of reports and suggestions.
//
// An Engine is built from a data-driven Policy: the state set, the transition
// table, the terminal states and the response rule. Engines are pure. They
// compute the mutation a caller must persist and never perform I/O.
package lifecycle

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"lapor/internal/access"
	"lapor/internal/domain"
	"lapor/pkg/e"
)

type Policy[S ~string] struct {
	Entity  domain.EntityKind
	Initial S
	// Allowed lists every state, in display order, with the states reachable
	// from it in one step. Terminal states map to an empty list.
	Allowed  []Edge[S]
	Terminal []S
	// RequiresResponse reports whether moving from -> to needs response text.
	RequiresResponse func(from, to S) bool
	// MinResponseLen is the floor, in characters of trimmed text, applied when
	// a response is required. Values below 1 mean non-empty.
	MinResponseLen  int
	TracksAssignee  bool
	TracksUpdatedAt bool
}

type Edge[S ~string] struct {
	From S
	To   []S
}

type Request[S ~string] struct {
	From     S
	To       S
	Actor    domain.Actor
	Response string
}

type options struct {
	now func() time.Time
}

type Option func(*options)

// WithClock overrides the source of UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

type Engine[S ~string] struct {
	policy   Policy[S]
	states   []S
	next     map[S][]S
	terminal map[S]bool
	now      func() time.Time
}

func New[S ~string](p Policy[S], opts ...Option) (*Engine[S], error) {
	o := options{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}

	en := &Engine[S]{
		policy:   p,
		next:     make(map[S][]S, len(p.Allowed)),
		terminal: make(map[S]bool, len(p.Terminal)),
		now:      o.now,
	}
	for _, edge := range p.Allowed {
		if _, dup := en.next[edge.From]; dup {
			return nil, fmt.Errorf("lifecycle: %s: state %q listed twice", p.Entity, edge.From)
		}
		en.states = append(en.states, edge.From)
		en.next[edge.From] = slices.Clone(edge.To)
	}
	for _, s := range p.Terminal {
		if _, ok := en.next[s]; !ok {
			return nil, fmt.Errorf("lifecycle: %s: terminal state %q is not a state", p.Entity, s)
		}
		en.terminal[s] = true
	}
	if _, ok := en.next[p.Initial]; !ok {
		return nil, fmt.Errorf("lifecycle: %s: initial state %q is not a state", p.Entity, p.Initial)
	}
	if en.terminal[p.Initial] {
		return nil, fmt.Errorf("lifecycle: %s: initial state %q is terminal", p.Entity, p.Initial)
	}
	for from, to := range en.next {
		if en.terminal[from] && len(to) > 0 {
			return nil, fmt.Errorf("lifecycle: %s: terminal state %q has outgoing edges", p.Entity, from)
		}
		for _, t := range to {
			if _, ok := en.next[t]; !ok {
				return nil, fmt.Errorf("lifecycle: %s: edge %q -> %q targets an unknown state", p.Entity, from, t)
			}
			if t == from {
				return nil, fmt.Errorf("lifecycle: %s: self edge on %q", p.Entity, from)
			}
		}
	}
	if p.RequiresResponse == nil {
		return nil, fmt.Errorf("lifecycle: %s: RequiresResponse is nil", p.Entity)
	}
	return en, nil
}

// MustNew is New for the static policies of this package.
func MustNew[S ~string](p Policy[S], opts ...Option) *Engine[S] {
	en, err := New(p, opts...)
	if err != nil {
		panic(err)
	}
	return en
}

func (en *Engine[S]) Entity() domain.EntityKind { return en.policy.Entity }

func (en *Engine[S]) Initial() S { return en.policy.Initial }

func (en *Engine[S]) States() []S { return slices.Clone(en.states) }

func (en *Engine[S]) Known(s S) bool {
	_, ok := en.next[s]
	return ok
}

func (en *Engine[S]) IsTerminal(s S) bool { return en.terminal[s] }

// AllowedNext lists the states reachable from the given one, for rendering
// the available actions. Terminal and unknown states yield none.
func (en *Engine[S]) AllowedNext(from S) []S {
	return slices.Clone(en.next[from])
}

// Request validates a status change and returns the fields to persist.
// Checks run in a fixed order: role, snapshot, terminal state, table, response.
func (en *Engine[S]) Request(req Request[S]) (Mutation[S], error) {
	if !req.Actor.Role.Valid() {
		return Mutation[S]{}, en.reject(req, e.ErrMalformed, false)
	}
	if !access.CanTransition(req.Actor.Role, en.policy.Entity) {
		return Mutation[S]{}, en.reject(req, e.ErrUnauthorized, false)
	}
	if !en.Known(req.From) {
		return Mutation[S]{}, en.reject(req, e.ErrMalformed, false)
	}
	if en.terminal[req.From] {
		return Mutation[S]{}, en.reject(req, e.ErrTerminalState, false)
	}
	if req.To == req.From {
		return Mutation[S]{}, en.reject(req, e.ErrInvalidTransition, true)
	}
	if !slices.Contains(en.next[req.From], req.To) {
		return Mutation[S]{}, en.reject(req, e.ErrInvalidTransition, false)
	}

	response := strings.TrimSpace(req.Response)
	if en.policy.RequiresResponse(req.From, req.To) && utf8.RuneCountInString(response) < en.minResponse() {
		return Mutation[S]{}, en.reject(req, e.ErrResponseRequired, false)
	}

	m := Mutation[S]{Status: req.To}
	if response != "" {
		m.Response = SetTo(response)
	}
	if en.policy.TracksAssignee {
		m.AssigneeID = SetTo(req.Actor.ID)
	}
	if en.policy.TracksUpdatedAt {
		now := en.now()
		m.UpdatedAt = &now
	}
	en.resetOnInitial(&m)

	return m, nil
}

// resetOnInitial is evaluated after the primary mutation. Returning to the
// initial state means the entity is untriaged again: the response is erased
// and any assignment revoked, whatever the primary mutation set.
func (en *Engine[S]) resetOnInitial(m *Mutation[S]) {
	if m.Status != en.policy.Initial {
		return
	}
	m.Response = Cleared[string]()
	if en.policy.TracksAssignee {
		m.AssigneeID = Cleared[uuid.UUID]()
	}
}

func (en *Engine[S]) minResponse() int {
	if en.policy.MinResponseLen < 1 {
		return 1
	}
	return en.policy.MinResponseLen
}

func (en *Engine[S]) reject(req Request[S], reason error, noop bool) error {
	return &TransitionError{
		Entity: en.policy.Entity,
		From:   string(req.From),
		To:     string(req.To),
		NoOp:   noop,
		Err:    reason,
	}
}

// Package command maps textual command names to role-gated operations
// and dispatches raw input lines to them.
//
// Several operations may register under one name — the same verb means
// different things per role ("product" lists for a buyer, edits for a
// seller). Resolution picks the first authorized candidate, except that
// a later candidate whose role set names the session's exact role
// overrides the earlier pick. That last-exact-match-wins rule is
// deliberate routing-by-specificity, pinned by tests; do not simplify it.
//
// Usage:
//
//	reg := command.NewRegistry()
//	reg.Register("search", "search listed products", handler, "buyer", "seller")
//	err := reg.Execute(actor, "search lamp 10 100")
package command

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrUnknownCommand is returned when no operation is registered
	// under the parsed name.
	ErrUnknownCommand = errors.New("unknown command, type 'help' for the command list")

	// ErrForbidden is the base authorization failure; the three
	// variants below wrap it.
	ErrForbidden = errors.New("forbidden")

	ErrNotAuthenticated = fmt.Errorf("login required: %w", ErrForbidden)
	ErrBanned           = fmt.Errorf("your account is banned: %w", ErrForbidden)
	ErrWrongRole        = fmt.Errorf("your role may not run this command: %w", ErrForbidden)

	// ErrExit is returned by an operation to stop the dispatch loop.
	ErrExit = errors.New("exit requested")
)

// Handler executes one operation with the positional argument tokens.
type Handler func(args []string) error

// Actor is the dispatcher's view of the current session.
type Actor struct {
	Authenticated bool
	Role          string
	Banned        bool
}

type entry struct {
	handler     Handler
	description string
	roles       []string // empty = unrestricted
}

// Registry holds the command table. Operations are resolved against the
// Actor passed to Execute, so one Registry serves the whole process.
type Registry struct {
	mu       sync.RWMutex
	commands map[string][]entry
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string][]entry)}
}

// Register adds an operation under name (case-insensitive). With no
// roles the operation is unrestricted, available to anonymous callers.
// Registration order matters: see the package doc for the tie-break.
func (r *Registry) Register(name, description string, handler Handler, roles ...string) {
	key := strings.ToLower(name)
	r.mu.Lock()
	r.commands[key] = append(r.commands[key], entry{
		handler:     handler,
		description: description,
		roles:       roles,
	})
	r.mu.Unlock()
}

// Execute parses input (whitespace-split, first token is the name),
// resolves the operation the actor may invoke, and runs it. A panicking
// operation is recovered and returned as an error so the input loop
// never crashes. Empty input is a no-op.
func (r *Registry) Execute(actor Actor, input string) error {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]

	r.mu.RLock()
	entries := r.commands[name]
	r.mu.RUnlock()
	if len(entries) == 0 {
		return ErrUnknownCommand
	}

	var selected *entry
	for i := range entries {
		e := &entries[i]
		if !authorized(actor, e.roles) {
			continue
		}
		if selected == nil {
			selected = e
			continue
		}
		// Later exact-role match overrides the earlier pick.
		if actor.Authenticated && containsRole(e.roles, actor.Role) {
			selected = e
		}
	}
	if selected == nil {
		switch {
		case !actor.Authenticated:
			return ErrNotAuthenticated
		case actor.Banned:
			return ErrBanned
		default:
			return ErrWrongRole
		}
	}

	return invoke(name, selected.handler, args)
}

// Available returns name → description for every command the actor may
// currently invoke. For multiplexed names the first authorized
// candidate's description is used.
func (r *Registry) Available(actor Actor) map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string)
	for name, entries := range r.commands {
		for _, e := range entries {
			if authorized(actor, e.roles) {
				out[name] = e.description
				break
			}
		}
	}
	return out
}

func invoke(name string, h Handler, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command %q panicked: %v", name, r)
		}
	}()
	return h(args)
}

// authorized reports whether the actor may invoke an operation gated by
// roles. Unrestricted operations always pass; gated ones need an
// authenticated, non-banned actor whose role is in the set.
func authorized(actor Actor, roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	if !actor.Authenticated || actor.Banned {
		return false
	}
	return containsRole(roles, actor.Role)
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

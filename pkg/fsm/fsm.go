// Package fsm holds explicit status transition tables and answers whether a
// move between two statuses is permitted.
package fsm

import (
	"fmt"
	"sort"
)

// Decision is the outcome of a transition check. Reason is empty when Allowed.
type Decision struct {
	Allowed bool
	Reason  string
}

// Machine is an immutable transition table over a string-backed status type.
type Machine[S ~string] struct {
	name  string
	edges map[S]map[S]struct{}
}

// New builds a machine named after the entity it guards. Every status that
// appears only as a target is registered as terminal.
func New[S ~string](name string, table map[S][]S) *Machine[S] {
	edges := make(map[S]map[S]struct{}, len(table))
	for from, targets := range table {
		set := make(map[S]struct{}, len(targets))
		for _, to := range targets {
			set[to] = struct{}{}
			if _, ok := edges[to]; !ok {
				if _, declared := table[to]; !declared {
					edges[to] = map[S]struct{}{}
				}
			}
		}
		edges[from] = set
	}
	return &Machine[S]{name: name, edges: edges}
}

func (m *Machine[S]) Name() string {
	return m.name
}

// Known reports whether s is a status this machine was built with.
func (m *Machine[S]) Known(s S) bool {
	_, ok := m.edges[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (m *Machine[S]) IsTerminal(s S) bool {
	targets, ok := m.edges[s]
	return ok && len(targets) == 0
}

// Targets lists the statuses reachable from s in lexical order.
func (m *Machine[S]) Targets(from S) []S {
	out := make([]S, 0, len(m.edges[from]))
	for to := range m.edges[from] {
		out = append(out, to)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Check decides whether from may move to to.
func (m *Machine[S]) Check(from, to S) Decision {
	switch {
	case !m.Known(from):
		return Decision{Reason: fmt.Sprintf("unknown %s status %q", m.name, from)}
	case !m.Known(to):
		return Decision{Reason: fmt.Sprintf("unknown %s status %q", m.name, to)}
	case from == to:
		return Decision{Reason: fmt.Sprintf("%s is already %s", m.name, to)}
	case m.IsTerminal(from):
		return Decision{Reason: fmt.Sprintf("%s is %s and can no longer change status", m.name, from)}
	}
	if _, ok := m.edges[from][to]; !ok {
		return Decision{Reason: fmt.Sprintf("cannot move %s from %s to %s", m.name, from, to)}
	}
	return Decision{Allowed: true}
}

// CanTransition is Check reduced to a boolean.
func (m *Machine[S]) CanTransition(from, to S) bool {
	return m.Check(from, to).Allowed
}

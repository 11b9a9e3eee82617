// Package sunmodel provides interchangeable day solvers for the timeline
// builder.
package sunmodel

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/litescript/ls-sunclock/internal/astro"
	"github.com/litescript/ls-sunclock/internal/timeline"
)

// ErrUnknownModel is returned by New for an unrecognised model name.
var ErrUnknownModel = errors.New("unknown sun model")

// Model is a named day solver.
type Model interface {
	timeline.DaySolver
	Name() string
}

// DefaultModel is the model used when none is configured.
const DefaultModel = "series"

var registry = map[string]func() Model{
	"series":   func() Model { return NewSeries(astro.SunBody{}) },
	"equation": func() Model { return Equation{} },
	"meeus":    func() Model { return Meeus{} },
}

// New returns the model registered under name. Matching is case
// insensitive; an empty name selects DefaultModel.
func New(name string) (Model, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultModel
	}
	ctor, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownModel, name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names lists the registered model names in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Series solves with the package's own ephemeris and the refined
// hour-angle solver. It works for any astro.Body.
type Series struct {
	Solver *astro.Solver
	Body   astro.Body
}

// NewSeries returns a Series model for body.
func NewSeries(body astro.Body) Series {
	return Series{Solver: astro.NewSolver(), Body: body}
}

// Name implements Model.
func (s Series) Name() string {
	if _, ok := s.Body.(astro.SunBody); ok {
		return "series"
	}
	return "series/" + strings.ToLower(s.Body.Name())
}

// SolveDay implements timeline.DaySolver.
func (s Series) SolveDay(dayStart int64, obs astro.Observer) (astro.RiseSetResult, error) {
	return s.Solver.RiseSet(s.Body, dayStart, obs)
}

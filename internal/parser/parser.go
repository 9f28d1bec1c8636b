// Package parser recovers draft candidates from free-form model output.
//
// Strategies run in a fixed order, from strict JSON decoding down to a prose
// fallback. The first one producing at least one candidate wins.
package parser

import (
	"errors"
)

// ErrNoCandidates is returned when no strategy recovered anything.
var ErrNoCandidates = errors.New("no draft candidates could be recovered from the response")

// Candidate is one loosely typed draft object as produced by the model.
type Candidate map[string]any

// Result carries the recovered candidates and the strategy that found them.
type Result struct {
	Candidates []Candidate
	Strategy   string
}

// Strategy is one self-contained recovery algorithm.
type Strategy struct {
	Name string
	Fn   func(text string) []Candidate
}

// Strategy names, in priority order.
const (
	StrategyStrict   = "strict"
	StrategyCleaned  = "cleaned"
	StrategyFields   = "fields"
	StrategyManual   = "manual"
	StrategyFallback = "fallback"
)

// Strategies returns the cascade in priority order.
func Strategies() []Strategy {
	return []Strategy{
		{Name: StrategyStrict, Fn: parseStrict},
		{Name: StrategyCleaned, Fn: parseCleaned},
		{Name: StrategyFields, Fn: extractFields},
		{Name: StrategyManual, Fn: parseManual},
		{Name: StrategyFallback, Fn: fallback},
	}
}

// Parse runs the default cascade over text.
func Parse(text string) (Result, error) {
	return Run(Strategies(), text)
}

// Run tries each strategy in order and returns the first non-empty result.
func Run(strategies []Strategy, text string) (Result, error) {
	for _, s := range strategies {
		if c := s.Fn(text); len(c) > 0 {
			return Result{Candidates: c, Strategy: s.Name}, nil
		}
	}
	return Result{}, ErrNoCandidates
}

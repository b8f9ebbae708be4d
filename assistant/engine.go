// Package assistant classifies free-text finance questions against an ordered
// intent catalog and composes bilingual replies from a point-in-time account
// snapshot. It performs no I/O.
package assistant

import (
	"fmt"

	"genie/finmath"
	"genie/locale"
)

// Reply is the engine's answer to one input.
type Reply struct {
	Intent   IntentID
	Level    Sophistication
	Language locale.Tag
	Draft
}

// Option configures an Engine.
type Option func(*Engine)

// WithPolicy overrides the emergency gate and allocation triples.
func WithPolicy(p finmath.Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// Engine is safe for concurrent use; it holds no per-conversation state.
type Engine struct {
	catalog   *Catalog
	formatter locale.Formatter
	policy    finmath.Policy
}

// NewEngine builds an engine around formatter. The policy is validated here
// so a bad override fails at startup.
func NewEngine(formatter locale.Formatter, opts ...Option) (*Engine, error) {
	if formatter == nil {
		return nil, fmt.Errorf("assistant: formatter is required")
	}
	e := &Engine{
		formatter: formatter,
		policy:    finmath.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		e.catalog = DefaultCatalog()
	}
	if err := e.policy.Validate(); err != nil {
		return nil, fmt.Errorf("assistant: invalid policy: %w", err)
	}
	return e, nil
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Policy returns the active policy.
func (e *Engine) Policy() finmath.Policy {
	return e.policy
}

// Respond classifies input and builds the reply. The only error is an invalid
// context; unmatched input falls through to the default rule.
func (e *Engine) Respond(input string, ctx Context) (Reply, error) {
	if err := ctx.Validate(); err != nil {
		return Reply{}, err
	}

	normalized := Normalize(input)
	rule := e.catalog.Match(normalized)
	level := ClassifySophistication(normalized)
	lang := locale.Resolve(ctx.Language)

	c := newComposer(lang, e.formatter)
	draft := rule.Build(c, Request{
		Text:    normalized,
		Context: ctx,
		Level:   level,
		Policy:  e.policy,
	})
	if draft.NavigateTo != "" && !draft.NavigateTo.Valid() {
		panic(fmt.Sprintf("assistant: rule %q navigates to unknown screen %q", rule.ID, draft.NavigateTo))
	}

	return Reply{
		Intent:   rule.ID,
		Level:    level,
		Language: lang,
		Draft:    draft,
	}, nil
}

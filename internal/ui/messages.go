package ui

import (
	"projectfeed/internal/domain"
	"projectfeed/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// categoriesMsg carries the catalog's categories
type categoriesMsg struct {
	categories []domain.Category
	err        error
}

// buildCheckMsg carries the result of the newer-build check
type buildCheckMsg struct {
	envelope *domain.BuildEnvelope
	err      error
}

// pagerClosedMsg is sent when the external pager exits
type pagerClosedMsg struct {
	err error
}

// configSavedMsg is sent after params were persisted
type configSavedMsg struct {
	err error
}

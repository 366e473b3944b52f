package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventPageRequested  EventType = "PageRequested"
	EventPageLoaded     EventType = "PageLoaded"
	EventPageFailed     EventType = "PageFailed"
	EventParamsChanged  EventType = "ParamsChanged"
	EventFeedCleared    EventType = "FeedCleared"
	EventProjectOpened  EventType = "ProjectOpened"
	EventBuildAvailable EventType = "BuildAvailable"
	EventError          EventType = "Error"
	EventConfigLoaded   EventType = "ConfigLoaded"
	EventConfigSaved    EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// PageRequestedEvent is emitted when the feed starts fetching a page
type PageRequestedEvent struct {
	Params DiscoveryParams
}

func (e PageRequestedEvent) Type() EventType { return EventPageRequested }

// PageLoadedEvent is emitted when a page was appended to the feed
type PageLoadedEvent struct {
	Params DiscoveryParams
	Count  int // projects in the page
	Total  int // projects in the feed after appending
	More   bool
}

func (e PageLoadedEvent) Type() EventType { return EventPageLoaded }

// PageFailedEvent is emitted when fetching a page failed
type PageFailedEvent struct {
	Params DiscoveryParams
	Err    error
}

func (e PageFailedEvent) Type() EventType { return EventPageFailed }

// ParamsChangedEvent is emitted when the feed switches to new filter params
type ParamsChangedEvent struct {
	Params DiscoveryParams
}

func (e ParamsChangedEvent) Type() EventType { return EventParamsChanged }

// FeedClearedEvent is emitted when the feed drops all loaded projects
type FeedClearedEvent struct{}

func (e FeedClearedEvent) Type() EventType { return EventFeedCleared }

// ProjectOpenedEvent is emitted when the detail screen is launched for a project
type ProjectOpenedEvent struct {
	ProjectID int64
}

func (e ProjectOpenedEvent) Type() EventType { return EventProjectOpened }

// BuildAvailableEvent is emitted when the catalog advertises a newer build
type BuildAvailableEvent struct {
	Envelope BuildEnvelope
}

func (e BuildAvailableEvent) Type() EventType { return EventBuildAvailable }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path   string
	Params DiscoveryParams
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

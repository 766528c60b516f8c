package domain

// EventRecorder is implemented by aggregates that buffer domain events until
// the surrounding unit of work commits.
type EventRecorder interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot buffers domain events for an aggregate whose identity is
// assigned by the store.
type BaseAggregateRoot struct {
	id           int64
	domainEvents []DomainEvent
}

// ID returns the store-assigned identity, or zero before the first insert.
func (a *BaseAggregateRoot) ID() int64 { return a.id }

// IsPersisted reports whether the store has assigned an identity.
func (a *BaseAggregateRoot) IsPersisted() bool { return a.id != 0 }

// AssignID records the identity returned by the store.
func (a *BaseAggregateRoot) AssignID(id int64) { a.id = id }

// DomainEvents returns all uncommitted domain events.
func (a *BaseAggregateRoot) DomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents removes all uncommitted domain events.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// AddDomainEvent appends an event to the buffer.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

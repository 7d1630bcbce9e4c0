// Package events carries progression notifications between components.
//
// Services publish an Event through an EventEmitter without knowing who
// listens. Handlers registered on the InMemoryEventEmitter receive every
// event and pick the types they care about. Delivery is synchronous, but a
// failing handler never fails the operation that emitted the event: callers
// log emit errors and move on.
package events

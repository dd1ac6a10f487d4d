/*
Package ports defines the driven ports (interfaces) for the storechat engine.

These interfaces decouple the conversation core from external implementations,
allowing it to work with various storage backends, catalogs, transports and
responders.

# Key Interfaces

  - KeyedStore: per-user keyed state (sessions, carts, checkout sessions).
  - Catalog: read-only product lookup.
  - Sender: outbound messaging transport.
  - Responder: natural-language fallback.
  - Notifier: attendant notification of finalized orders.
  - DistributedLocker: cross-replica serialization of a user's turns.
*/
package ports

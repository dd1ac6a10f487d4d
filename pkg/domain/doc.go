/*
Package domain contains the core domain models of the storechat ordering assistant.

It defines the catalog entities, the cart line items, the inbound message shape,
the navigation context variants, and the outbound actions the conversation engine
asks the host to perform. This package is kept pure and free of I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Product / Category: read-only catalog entries served by a ports.Catalog.
  - LineItem: a selected product with size, variant and quantity.
  - Message: one inbound text or structured list reply.
  - NavContext: the tagged union describing where a user is in the catalog flow.
  - Action: a structural representation of what the host should send.
  - Order: the immutable result of a finalized checkout.
*/
package domain

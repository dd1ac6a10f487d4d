/*
Package storechat is a conversational ordering bot for small stores.

Customers talk to it over a messaging channel: they browse the catalog
through numbered or structured menus, build a cart, and place an order in a
guided checkout. Anything the menus do not understand goes to a
natural-language responder that knows the store and its products.

# Architecture

The core is transport-agnostic. Every inbound message goes through the
dispatcher, which decides in priority order who owns it:

 1. an active checkout session,
 2. the catalog navigation state machine,
 3. the explicit checkout commands,
 4. the responder.

The layers only return actions (text, image, list, notify); the dispatcher's
executor performs them against a ports.Sender. Each user's turn runs under a
per-user lock, optionally distributed through Redis.

# Adapters

  - pkg/adapters/catalog: YAML/JSON catalog file with a TTL cache and hot reload.
  - pkg/adapters/gateway: outbound HTTP messaging gateway.
  - pkg/adapters/http: inbound webhook, health and metrics endpoints.
  - pkg/adapters/console: terminal transport for local chats.
  - pkg/adapters/openai: responder on the OpenAI chat API.
  - pkg/adapters/sendgrid: e-mail notification of new orders.
  - pkg/adapters/redis: distributed per-user turn lock.

# Usage

	storechat serve --config config.yaml
	storechat chat --config config.yaml
	storechat catalog validate catalog.yaml
*/
package storechat

package models

// WelcomeText is the assistant message shown on a fresh transcript.
const WelcomeText = "Hello! I'm your assistant. How can I help you today?"

// FallbackErrorText is the assistant message substituted when an
// exchange fails. It is displayed and persisted like any other reply.
const FallbackErrorText = "Sorry, something went wrong while contacting the server. Please try again."

// DefaultServerURL is the chat backend used when none is configured.
const DefaultServerURL = "http://localhost:8080"

// ChatEndpoint is the streaming chat path on the backend.
const ChatEndpoint = "/api/chat"

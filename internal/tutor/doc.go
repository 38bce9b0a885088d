// Package tutor adapts a streaming chat-completion service into the
// conversational tutor.
//
// An Adapter turns a question about a topic into a Stream of text fragments.
// A Stream never fails from the caller's point of view: a missing credential
// or a provider error ends it with exactly one human-readable fallback
// fragment, and Err reports what went wrong. A Session keeps the message
// sequence shown in the tutor panel and folds a Stream into it.
package tutor

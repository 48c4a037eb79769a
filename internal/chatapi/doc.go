// Package chatapi is the I/O boundary to the airline chat backend.
//
// A single call, Send, posts {conversation_id, message} to the backend's
// /chat endpoint and decodes the reply into a Response whose snapshot fields
// replace client state and whose delta fields are appended to it. Any
// transport error, non-success status or malformed body is returned as a
// *Failure; the client holds no conversation state of its own.
package chatapi

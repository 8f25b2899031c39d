// Package tldr turns a chat command invocation into a grouped summary reply.
//
// A Pipeline runs one invocation as a straight line:
//
//	validate → select window → flatten → assemble prompt → generate → compose
//
// Every path ends in exactly one Response: either a two-part GroupedReply or a single
// plain-text line explaining why no summary was produced. Storage and invocation
// context are injected through the MessageStore and Invocation interfaces; the
// generation backend is any model.Provider.
package tldr

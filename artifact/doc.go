// Package artifact stores rendered session documents, keyed by session id
// and file name.
//
// InMemoryStore suits tests and single-process servers. DirStore keeps one
// directory per session so archived exports survive a restart.
package artifact

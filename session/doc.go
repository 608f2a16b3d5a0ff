// Package session houses concrete implementations of core.SessionStore.
// The interface itself lives in the core package to centralize domain
// contracts; keeping only implementations here prevents the orchestrator and
// server from depending on concrete storage.
package session

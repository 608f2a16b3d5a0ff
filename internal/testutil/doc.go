// Package testutil contains helper builders and a scripted model used across
// tests to reduce boilerplate when constructing advisors, transcripts and
// sessions, and when faking provider behaviour (failures, slow advisors,
// canned moderation decisions). It is not intended for production usage.
package testutil

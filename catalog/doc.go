// Package catalog holds the advisors a session can draw from and picks a
// panel for a product idea.
//
// The catalog starts with the built-in core advisors and can be extended
// with markdown files carrying YAML frontmatter. A Selector asks the model
// which catalog advisors fit an idea and which session-only advisors to
// generate, then produces persona prompts for the generated ones.
package catalog

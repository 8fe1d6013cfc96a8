// Package llm provides category suggestion clients for product descriptions.
// It supports multiple hosted model providers including OpenAI, Anthropic and
// Gemini, each making a single structured-output call per product with
// schema validation at the boundary.
package llm

// Package model defines the provider‑agnostic abstractions for the language
// models an assistant agent may call.
//
// Core goals:
//   - Unify streaming + non‑streaming generation behind a single interface
//   - Keep request/response shapes minimal (role tagged text turns)
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (Anthropic, OpenAI) implement Model in sub-packages so agents
// remain decoupled from vendor SDKs.
package model

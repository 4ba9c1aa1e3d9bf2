/*
Package ports defines the driven ports (interfaces) of the inkwell preprocessor.

These interfaces decouple the preprocessor core from concrete implementations,
so the façade never depends on whether its context is static or watched, or on
which template engine backs rendering.

# Key Interfaces

  - ContextSource: provides the current data context (static file, watched file, memory).
  - Renderer: renders a named template against a context (the template library).
*/
package ports

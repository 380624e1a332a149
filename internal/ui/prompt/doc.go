// Package prompt provides the interactive prompts specify shows on a
// terminal. All prompts render to stderr so stdout stays machine-readable.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation prompt
//   - [TextInput]: Single-line text input
//   - [Select]: Single selection from a list
package prompt

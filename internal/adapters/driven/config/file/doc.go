// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable prompt files
//   - LoadSettings/SaveSettings: mapping between a ConfigStore and domain.Settings
package file

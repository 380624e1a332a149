// Package settings loads per-project specify settings.
//
// Settings live in <project root>/.specify/config.toml:
//
//	[branch]
//	template = "{username}/{number}-{short_name}"
//
//	[specs]
//	dir = "specs"
//
// A missing file yields [Default] without error. A file that exists but
// cannot be parsed, or that holds a recognized key of the wrong type, is
// reported as a [*ConfigParseError] and is fatal to the calling command.
// Unrecognized keys are ignored and listed in [Settings.Ignored].
//
// The SPECIFY_SPEC_DIR environment variable overrides specs.dir.
//
// Settings are loaded once per command and passed by value.
package settings

// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

/*
Package validation provides struct validation using go-playground/validator v10.

It holds a thread-safe singleton validator, so struct metadata is cached once
for the process, and translates validator failures into messages that name
the full field path:

	Config.Recorder.Workers must be at most 64
	Event.Kind must be one of: watch like subscribe search

# Custom Tags

In addition to the built-in validators, two tags are registered:

  - notblank: the string is non-empty after trimming whitespace
  - hour: an integer wall-clock hour in 0-23

# Usage

	type Settings struct {
	    Workers int      `validate:"min=1,max=64"`
	    Words   []string `validate:"min=1,dive,notblank"`
	}

	if err := validation.ValidateStruct(&s); err != nil {
	    return fmt.Errorf("invalid settings: %w", err)
	}

The returned error is a *validation.Error; use errors.As to inspect the
individual FieldError values.
*/
package validation

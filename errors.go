// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package hbt

import "errors"

// ErrKeyOutOfRange would be returned by Get/Insert/Remove if a key fell
// outside [0, 2^(D*W)). With D=4 and W=8, D*W=32 exactly matches the
// uint32 key width, so this is unreachable from the public API today
// and no function returns it; it is kept as a sentinel for a future,
// narrower parameterization.
var ErrKeyOutOfRange = errors.New("hbt: key out of range")

// ErrSourceMismatch is returned by Intersection, Union, and Reduce when
// called with zero sources.
var ErrSourceMismatch = errors.New("hbt: set operation requires at least one source")

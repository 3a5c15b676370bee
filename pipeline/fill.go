// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// FillMode selects how triangles are rasterized.
type FillMode int

const (
	// FillSolid draws filled triangles.
	FillSolid FillMode = iota

	// FillLines draws triangle edges only.
	FillLines
)

// String returns the fill mode name.
func (m FillMode) String() string {
	switch m {
	case FillSolid:
		return "fill"
	case FillLines:
		return "lines"
	default:
		return fmt.Sprintf("FillMode(%d)", int(m))
	}
}

// Topology returns the primitive topology drawn in mode m.
func (m FillMode) Topology() gputypes.PrimitiveTopology {
	if m == FillLines {
		return gputypes.PrimitiveTopologyLineList
	}
	return gputypes.PrimitiveTopologyTriangleList
}

var fillModes = [...]FillMode{FillSolid, FillLines}

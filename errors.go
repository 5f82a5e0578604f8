package restructure

import "errors"

// Sentinel errors returned by Structure and its helpers, per spec §7. Wrap
// with fmt.Errorf("%w: ...", ...) to attach the offending block/node so
// errors.Is still matches.
var (
	// ErrUnsupportedTerminator is returned when a basic block ends in a
	// terminator this core does not understand (anything but Jump,
	// CondBranch or Return).
	ErrUnsupportedTerminator = errors.New("restructure: unsupported terminator")

	// ErrMissingGraphNode is returned when a block that must already have
	// been registered with the AstGrapher (via AddBasicBlock or
	// UpdateRegion) is not found. Indicates an internal inconsistency
	// between the CFG and the graph overlay, not a malformed input.
	ErrMissingGraphNode = errors.New("restructure: missing graph node")

	// ErrLoopNotSimplified is returned when a block reported as a loop
	// header has no loop body to fold.
	ErrLoopNotSimplified = errors.New("restructure: loop could not be structured")
)

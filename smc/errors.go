package smc

import "fmt"

// ConfigError reports a bind-time misconfiguration: a downstream address
// range that is not zero-based or whose size does not match the region
// layout computed from an AddressMap, or a Builder asked to build a Comp
// without an AddressMap. ConfigError is always fatal — the caller should
// not attempt to continue.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("smc: config error: %s", e.Reason)
}

// NewConfigError creates a ConfigError with the given reason.
func NewConfigError(reason string) *ConfigError {
	return &ConfigError{Reason: reason}
}

// ProtocolError reports a response or retry packet whose address does not
// match any address derivable for the transaction currently in flight, or
// an internal invariant that the write path could not satisfy (e.g. no
// empty Merkle-tree slot left to write). A ProtocolError always indicates a
// bug in this component or its caller, never a transient condition.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("smc: protocol error: %s", e.Reason)
}

// NewProtocolError creates a ProtocolError with the given reason.
func NewProtocolError(reason string) *ProtocolError {
	return &ProtocolError{Reason: reason}
}

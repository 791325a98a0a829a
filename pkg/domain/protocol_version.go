package domain

import (
	"fmt"
)

// ProtocolVersion is the version stamped on relationship certificates.
// This is a domain primitive that enforces validity at parse time.
type ProtocolVersion string

const (
	ProtocolVersion1 ProtocolVersion = "1.0"
	ProtocolVersion2 ProtocolVersion = "2.0"
)

// versionOrder defines the ordering of versions for comparison.
var versionOrder = map[ProtocolVersion]int{
	ProtocolVersion1: 1,
	ProtocolVersion2: 2,
}

// ParseProtocolVersion validates and returns a ProtocolVersion.
func ParseProtocolVersion(s string) (ProtocolVersion, error) {
	v := ProtocolVersion(s)
	if _, ok := versionOrder[v]; !ok {
		return "", fmt.Errorf("unknown protocol version: %s", s)
	}
	return v, nil
}

func (v ProtocolVersion) String() string {
	return string(v)
}

// IsAtLeast returns true if this version is >= other.
// Unknown versions are treated as lower than any known version.
func (v ProtocolVersion) IsAtLeast(other ProtocolVersion) bool {
	thisOrder, thisOK := versionOrder[v]
	otherOrder, otherOK := versionOrder[other]
	if !thisOK {
		return false
	}
	if !otherOK {
		return true
	}
	return thisOrder >= otherOrder
}

// DefaultProtocolVersion returns the version used when none is configured.
func DefaultProtocolVersion() ProtocolVersion {
	return ProtocolVersion2
}

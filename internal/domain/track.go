package domain

import (
	"errors"
	"fmt"
	"strings"
)

// TrackKind identifies a mortgage track flavor
type TrackKind string

const (
	TrackFixedNotLinked    TrackKind = "fixed_not_linked"
	TrackFixedLinked       TrackKind = "fixed_linked"
	TrackVariableLinked    TrackKind = "variable_linked"
	TrackVariableNotLinked TrackKind = "variable_not_linked"
	TrackEligibility       TrackKind = "eligibility"
	TrackPrime             TrackKind = "prime"
)

// InterestType groups tracks by how their rate behaves
type InterestType string

const (
	InterestFixed    InterestType = "fixed"
	InterestVariable InterestType = "variable"
	InterestPrime    InterestType = "prime"
)

// LinkageType groups tracks by consumer price index linkage
type LinkageType string

const (
	LinkageLinked    LinkageType = "linked"
	LinkageNotLinked LinkageType = "not_linked"
	LinkagePrime     LinkageType = "prime"
)

// ErrUnrecognizedVariant is returned when a track kind is outside the known set
var ErrUnrecognizedVariant = errors.New("unrecognized track variant")

var interestTypes = map[TrackKind]InterestType{
	TrackFixedLinked:       InterestFixed,
	TrackFixedNotLinked:    InterestFixed,
	TrackEligibility:       InterestVariable,
	TrackVariableLinked:    InterestVariable,
	TrackVariableNotLinked: InterestVariable,
	TrackPrime:             InterestPrime,
}

var linkageTypes = map[TrackKind]LinkageType{
	TrackVariableLinked:    LinkageLinked,
	TrackFixedLinked:       LinkageLinked,
	TrackEligibility:       LinkageLinked,
	TrackVariableNotLinked: LinkageNotLinked,
	TrackFixedNotLinked:    LinkageNotLinked,
	TrackPrime:             LinkagePrime,
}

// TrackKinds returns every supported kind in display order
func TrackKinds() []TrackKind {
	return []TrackKind{
		TrackFixedNotLinked,
		TrackFixedLinked,
		TrackVariableLinked,
		TrackVariableNotLinked,
		TrackEligibility,
		TrackPrime,
	}
}

// InterestTypes returns the interest classifications in display order
func InterestTypes() []InterestType {
	return []InterestType{InterestFixed, InterestVariable, InterestPrime}
}

// LinkageTypes returns the linkage classifications in display order
func LinkageTypes() []LinkageType {
	return []LinkageType{LinkageLinked, LinkageNotLinked, LinkagePrime}
}

// ParseTrackKind accepts the canonical names case-insensitively, with either
// dashes or underscores.
func ParseTrackKind(s string) (TrackKind, error) {
	kind := TrackKind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedVariant, s)
	}
	return kind, nil
}

// Valid reports whether k is one of the supported kinds
func (k TrackKind) Valid() bool {
	_, ok := interestTypes[k]
	return ok
}

// ClassifyInterest maps a kind to its interest type
func ClassifyInterest(k TrackKind) (InterestType, error) {
	t, ok := interestTypes[k]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedVariant, k)
	}
	return t, nil
}

// ClassifyLinkage maps a kind to its linkage type
func ClassifyLinkage(k TrackKind) (LinkageType, error) {
	t, ok := linkageTypes[k]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedVariant, k)
	}
	return t, nil
}

// IsIndexLinked reports whether the outstanding principal follows an index
func (k TrackKind) IsIndexLinked() bool {
	return linkageTypes[k] == LinkageLinked
}

// HasRateReset reports whether the rate is reset on a fixed schedule
func (k TrackKind) HasRateReset() bool {
	return k == TrackVariableLinked || k == TrackVariableNotLinked
}

// FollowsForecast reports whether the rate may drift month to month.
// Eligibility loans carry a fixed subsidized rate.
func (k TrackKind) FollowsForecast() bool {
	return k != TrackFixedLinked && k != TrackFixedNotLinked && k != TrackEligibility
}

// AllowsInterestOnly reports whether the track may start with interest-only months
func (k TrackKind) AllowsInterestOnly() bool {
	return k != TrackEligibility
}

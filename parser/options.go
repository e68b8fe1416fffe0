package parser

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasref/oaserrors"
)

// Strictness tells downstream model factories how to treat fields that do not
// belong to the detected OpenAPI version. Resolution itself ignores it.
type Strictness string

const (
	// StrictnessStrict treats incompatible fields as errors.
	StrictnessStrict Strictness = "strict"
	// StrictnessLenient ignores incompatible fields or downgrades them to warnings.
	StrictnessLenient Strictness = "lenient"
)

// ParseStrictness parses "strict" or "lenient", ignoring case.
func ParseStrictness(s string) (Strictness, error) {
	switch Strictness(strings.ToLower(strings.TrimSpace(s))) {
	case StrictnessStrict:
		return StrictnessStrict, nil
	case StrictnessLenient:
		return StrictnessLenient, nil
	}
	return "", &oaserrors.ConfigError{Option: "strictness", Value: s, Message: "expected strict or lenient"}
}

// DefaultMaxRefDepth is the default maximum length of a $ref chain.
const DefaultMaxRefDepth = 64

// ParseOptions controls a single expansion. Values are immutable; the With
// methods return modified copies. Start from DefaultParseOptions, since the
// zero value disables external refs.
type ParseOptions struct {
	// Strictness is passed to the NodeFactory.
	Strictness Strictness
	// ResolveExternalRefs enables refs into other documents. When false,
	// such reference nodes are copied to the output untouched.
	ResolveExternalRefs bool
	// MaxRefDepth bounds the length of a $ref chain. Zero means DefaultMaxRefDepth.
	MaxRefDepth int
}

// DefaultParseOptions returns strict options resolving external refs with the
// default chain depth.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Strictness:          StrictnessStrict,
		ResolveExternalRefs: true,
		MaxRefDepth:         DefaultMaxRefDepth,
	}
}

// StrictOptions returns DefaultParseOptions with strict strictness.
func StrictOptions() ParseOptions {
	return DefaultParseOptions()
}

// LenientOptions returns DefaultParseOptions with lenient strictness.
func LenientOptions() ParseOptions {
	return DefaultParseOptions().WithStrictness(StrictnessLenient)
}

// WithStrictness returns a copy with the given strictness.
func (o ParseOptions) WithStrictness(s Strictness) ParseOptions {
	o.Strictness = s
	return o
}

// WithResolveExternalRefs returns a copy with external ref resolution toggled.
func (o ParseOptions) WithResolveExternalRefs(resolve bool) ParseOptions {
	o.ResolveExternalRefs = resolve
	return o
}

// WithMaxRefDepth returns a copy with the given chain depth.
func (o ParseOptions) WithMaxRefDepth(depth int) ParseOptions {
	o.MaxRefDepth = depth
	return o
}

// Validate reports a ConfigError for a negative depth or an unknown strictness.
func (o ParseOptions) Validate() error {
	if o.MaxRefDepth < 0 {
		return &oaserrors.ConfigError{Option: "MaxRefDepth", Value: o.MaxRefDepth, Message: "must not be negative"}
	}
	switch o.Strictness {
	case "", StrictnessStrict, StrictnessLenient:
	default:
		return &oaserrors.ConfigError{Option: "Strictness", Value: string(o.Strictness), Message: "expected strict or lenient"}
	}
	return nil
}

func (o ParseOptions) maxRefDepth() int {
	if o.MaxRefDepth > 0 {
		return o.MaxRefDepth
	}
	return DefaultMaxRefDepth
}

// String renders the options for logs.
func (o ParseOptions) String() string {
	return fmt.Sprintf("strictness=%s resolveExternalRefs=%t maxRefDepth=%d",
		o.Strictness, o.ResolveExternalRefs, o.maxRefDepth())
}

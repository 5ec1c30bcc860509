package output

import (
	"fmt"
	"sort"
	"strings"
)

// DestinationKind identifies a sink. The numeric order is the delivery order.
type DestinationKind int

const (
	DestStdout DestinationKind = iota
	DestFile
	DestClipboard
)

func (k DestinationKind) String() string {
	switch k {
	case DestStdout:
		return "stdout"
	case DestFile:
		return "file"
	case DestClipboard:
		return "clipboard"
	default:
		return fmt.Sprintf("DestinationKind(%d)", int(k))
	}
}

// Destination is one place the aggregated buffer is delivered to. Path is only
// set for DestFile.
type Destination struct {
	Kind DestinationKind
	Path string
}

func (d Destination) String() string {
	if d.Kind == DestFile {
		return d.Path
	}
	return d.Kind.String()
}

// Policy decides how an existing write target is handled.
type Policy string

const (
	PolicyPrompt  Policy = "prompt"
	PolicyReplace Policy = "replace"
	PolicyAppend  Policy = "append"
	PolicyCancel  Policy = "cancel"
)

// ParsePolicy validates a conflict policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyPrompt, PolicyReplace, PolicyAppend, PolicyCancel:
		return p, nil
	case "":
		return PolicyPrompt, nil
	default:
		return "", fmt.Errorf("unknown conflict policy %q (want prompt, replace, append or cancel)", s)
	}
}

// Plan is a validated set of destinations plus the conflict policy for the file sink.
type Plan struct {
	Destinations []Destination
	Policy       Policy
}

// NewPlan applies the destination rules: no explicit request means clipboard,
// --print adds stdout next to the clipboard, --write alone only writes the file,
// and noClipboard removes the clipboard in every case.
func NewPlan(print bool, writePath string, noClipboard bool, policy Policy) Plan {
	var dests []Destination
	if print {
		dests = append(dests, Destination{Kind: DestStdout})
	}
	if writePath != "" {
		dests = append(dests, Destination{Kind: DestFile, Path: writePath})
	}
	clipboard := writePath == "" || print
	if clipboard && !noClipboard {
		dests = append(dests, Destination{Kind: DestClipboard})
	}
	if policy == "" {
		policy = PolicyPrompt
	}
	return Plan{Destinations: dests, Policy: policy}
}

// Has reports whether the plan delivers to kind.
func (p Plan) Has(kind DestinationKind) bool {
	for _, d := range p.Destinations {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// Empty reports whether the plan has no destination.
func (p Plan) Empty() bool {
	return len(p.Destinations) == 0
}

// ordered returns the destinations in delivery order.
func (p Plan) ordered() []Destination {
	dests := append([]Destination(nil), p.Destinations...)
	sort.SliceStable(dests, func(i, j int) bool { return dests[i].Kind < dests[j].Kind })
	return dests
}

// Package plan implements the copy planner: given a (source,
// destination, args) triple, decide how data moves between them,
// following the three ordered rules of spec §4.4.
package plan

import (
	"github.com/seamusabshere/dbcrossbar/capability"
	"github.com/seamusabshere/dbcrossbar/errs"
	"github.com/seamusabshere/dbcrossbar/locator"
)

// Strategy names which of the three planner rules was selected.
type Strategy int

const (
	// DirectRemoteCopy: the destination accepts a remote copy straight
	// from the source's native URL form (spec §4.4 rule 1).
	DirectRemoteCopy Strategy = iota
	// StagedCopy: source -> staging (one of --temporary) as local CSV
	// streams, then staging -> destination via remote copy (rule 2).
	StagedCopy
	// LocalStream: source -> destination as local CSV byte streams,
	// with no remote copy involved at all (rule 3).
	LocalStream
)

// Plan is the planner's decision for one copy.
type Plan struct {
	Strategy Strategy
	// Staging is set only when Strategy == StagedCopy: the locator from
	// --temporary chosen as the intermediate.
	Staging *locator.Locator
}

// Choose applies the three ordered rules of spec §4.4 to a
// (source, destination, temporaries) triple. args must already be
// Verified against both the source's and destination's capability
// sets before Choose is called (spec §4.6); Choose itself only
// reasons about capability sets, not options within VerifiedArgs.
func Choose(source, dest *locator.Locator, temporaries []*locator.Locator, _ capability.VerifiedArgs) (*Plan, error) {
	srcFeatures, ok := source.Features()
	if !ok {
		return nil, &errs.Unsupported{Source: string(source.Scheme), Reason: "unregistered source scheme"}
	}
	destFeatures, ok := dest.Features()
	if !ok {
		return nil, &errs.Unsupported{Destination: string(dest.Scheme), Reason: "unregistered destination scheme"}
	}

	// Rule 1: a destination that can pull remote data directly from the
	// source's own scheme needs no staging at all. In this module, a
	// direct remote copy is only possible when both ends are the same
	// live backend scheme (e.g. postgres -> postgres), since we do not
	// yet model a per-destination "acceptable remote source schemes"
	// table the way Redshift's COPY FROM S3/Redshift's COPY FROM
	// Redshift would require; see DESIGN.md Open Question (a).
	if srcFeatures.Ops[capability.OpRemoteData] && destFeatures.Ops[capability.OpRemoteData] && source.Scheme == dest.Scheme {
		return &Plan{Strategy: DirectRemoteCopy}, nil
	}

	// Rule 2: stage through the first --temporary candidate that
	// declares OpStaging, provided the destination declares
	// OpRemoteData. Which staging schemes the destination can actually
	// ingest is not checked.
	for _, t := range temporaries {
		stageFeatures, ok := t.Features()
		if !ok {
			continue
		}
		if stageFeatures.Ops[capability.OpStaging] && destFeatures.Ops[capability.OpRemoteData] {
			return &Plan{Strategy: StagedCopy, Staging: t}, nil
		}
	}

	// Rule 3: stream source -> destination as local CSV byte streams.
	if srcFeatures.Ops[capability.OpLocalData] && destFeatures.Ops[capability.OpLocalData] {
		return &Plan{Strategy: LocalStream}, nil
	}

	return nil, &errs.Unsupported{
		Source:      string(source.Scheme),
		Destination: string(dest.Scheme),
		Reason:      "no direct remote copy, no usable staging candidate, and at least one side lacks local data movement",
	}
}

// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package records

// NormalizedAttempt is a RawAttempt that survived deduplication, with the
// code and status normalized and the exam attempt count attached.
type NormalizedAttempt struct {
	RawAttempt

	// Attempts is the number of exam-source entries recorded for the course.
	Attempts int `json:"attempts"`
}

// AsRaw returns the attempt as raw input for another Normalize pass.
// The derived attempt count travels with it so repeated passes agree.
func (n NormalizedAttempt) AsRaw() RawAttempt {
	r := n.RawAttempt
	r.carried = n.Attempts
	r.hasCarried = true
	return r
}

// Normalize deduplicates one student's attempts.
//
// Attempts are grouped by normalized code; empty and "NAN" codes are dropped.
// Within a group, REV and RLI entries are removed, and an approved partial
// obtained by instruction is removed when an approved total by instruction
// exists for the same course. Every surviving entry carries the number of
// exam-source entries in its group.
//
// Output groups follow the first appearance of each code; entries keep their
// input order within a group.
func Normalize(attempts []RawAttempt) []NormalizedAttempt {
	order := make([]string, 0, len(attempts))
	groups := make(map[string][]RawAttempt, len(attempts))

	for _, a := range attempts {
		code := a.NormalizedCode()
		if code == "" || code == "NAN" {
			continue
		}
		if _, seen := groups[code]; !seen {
			order = append(order, code)
		}
		groups[code] = append(groups[code], a)
	}

	out := make([]NormalizedAttempt, 0, len(attempts))
	for _, code := range order {
		group := groups[code]

		examCount := 0
		carried, hasCarried := 0, false
		finalByInstruction := false
		for _, a := range group {
			if a.IsExamSource() {
				examCount++
			}
			if a.hasCarried {
				hasCarried = true
				if a.carried > carried {
					carried = a.carried
				}
			}
			if a.NormalizedStatus() == StatusApproved &&
				a.IsByInstruction() &&
				a.NormalizedResultType() == ResultTypeTotal {
				finalByInstruction = true
			}
		}
		if hasCarried && carried > examCount {
			examCount = carried
		}

		for _, a := range group {
			status := a.NormalizedStatus()
			if status == StatusRevoked || status == StatusExcluded {
				continue
			}
			if finalByInstruction &&
				status == StatusApproved &&
				a.IsByInstruction() &&
				a.NormalizedResultType() == ResultTypePartial {
				continue
			}

			kept := a
			kept.Code = code
			kept.Status = status
			kept.ResultType = a.NormalizedResultType()
			kept.carried, kept.hasCarried = 0, false
			out = append(out, NormalizedAttempt{RawAttempt: kept, Attempts: examCount})
		}
	}

	return out
}

// Renormalize runs Normalize over already normalized attempts.
func Renormalize(attempts []NormalizedAttempt) []NormalizedAttempt {
	raw := make([]RawAttempt, len(attempts))
	for i, a := range attempts {
		raw[i] = a.AsRaw()
	}
	return Normalize(raw)
}

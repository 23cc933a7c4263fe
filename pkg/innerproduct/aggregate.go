// Package innerproduct computes the simplified inner-product response.
//
// In this protocol the response collapses to the sum of the commitments in
// the transcript. It stands in for a full Bulletproof inner-product argument
// and is only sound together with the matching predicate in roles.Verifier.
package innerproduct

import (
	"github.com/suffix-labs/ctproof/pkg/fault"
	"github.com/suffix-labs/ctproof/pkg/group"
)

// Aggregate returns commitments[0] + commitments[1] + ... summed left to right.
//
// Fails with EMPTY_AGGREGATION on an empty vector and with GROUP_FAILURE if
// any partial sum is the identity.
func Aggregate(commitments []*group.Point) (*group.Point, error) {
	if len(commitments) == 0 {
		return nil, fault.New(fault.CodeEmptyAggregation, "cannot aggregate an empty commitment vector")
	}

	result := commitments[0]
	for i, c := range commitments[1:] {
		sum, err := result.Add(c)
		if err != nil {
			return nil, fault.Wrap(fault.CodeGroupFailure, err, "partial sum at index %d", i+1)
		}
		result = sum
	}
	return result, nil
}

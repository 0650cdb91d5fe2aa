// Package idhash derives deterministic identifiers for fabricated records.
package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"

	"retail-promo-lab/internal/domain"
)

// transactionIDBytes is the digest prefix kept in a transaction_id.
const transactionIDBytes = 16

// ComputeTransactionID computes a deterministic transaction_id.
// Formula: base58(SHA256(run_id|scenario|region|respondent_id|trip)[:16])
func ComputeTransactionID(
	runID string,
	scenario domain.Scenario,
	region string,
	respondentID string,
	trip int,
) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%d",
		runID,
		string(scenario),
		region,
		respondentID,
		trip,
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:transactionIDBytes])
}

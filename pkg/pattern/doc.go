// Package pattern defines the domain types shared across the gridlock
// engine: grid nodes and candidate paths, the consumer capability and its
// outcomes, the attempt-ledger contract, the search configuration with its
// validation rules, and the standard errors.
package pattern

// Package formats defines the wallet file adapter contract and the registry adapters are resolved from.
//
// Ownership boundary:
// - adapter identity metadata and its validation
// - shared adapter options (address deriver, decode limits, logger)
// - id-keyed registration and deterministic listing
//
// Concrete adapters live in subpackages; builtin wires the ones shipped with zwalletctl.
package formats

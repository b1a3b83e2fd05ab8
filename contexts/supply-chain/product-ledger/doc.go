// Package productledger is the chain-of-custody core: product records, the
// ownership/status state machine, the two-phase ownership-transfer protocol,
// the append-only audit history, and the per-viewer history access list.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package productledger

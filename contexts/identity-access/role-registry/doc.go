// Package roleregistry maps identities to supply-chain roles.
//
// Writes are gated on the administrator identity fixed at bootstrap. The
// product ledger consults this registry for authorization decisions.
package roleregistry

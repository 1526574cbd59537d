// Package repokit holds the seams repos and services share
package repokit

import "purchaseinbox/internal/platform/store"

// Queryer is what a bound repo runs its statements on
// either the pool or the tx handed to a TxRunner callback
type Queryer = store.RowQuerier

// TxRunner runs a callback inside one transaction
type TxRunner = store.TxRunner

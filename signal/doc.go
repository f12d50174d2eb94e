// Package signal provides value-carrying channels built on the kernel's
// deferred-update protocol. A Signal holds a single value with last-write-wins
// resolution per delta cycle; a Fifo is a bounded queue with data-written and
// data-read events. Writes performed during the evaluate phase become visible
// only after the update phase, so every process in a cycle observes the same
// committed state.
package signal

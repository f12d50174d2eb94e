// Package kernel implements a discrete-event simulation kernel for
// hardware-description models. A network of cooperatively scheduled
// processes communicates through deferred updates to shared targets, and a
// single scheduler drives the evaluate, update, delta-notify, and
// time-advance phases until quiescence.
//
// Concurrency is strictly cooperative: logically many processes, physically
// one active execution context at a time, switched only at explicit wait
// calls. Simulated time never decreases, and only the time-advance phase
// moves it forward.
package kernel

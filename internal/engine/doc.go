// Package engine implements the poker room state machine as pure
// reducers over an immutable table state.
//
// Every transition takes a State and returns a new one; nothing in this
// package mutates its input or holds references across calls. The room
// supervisor owns the single authoritative State and is the only writer.
// Events, moves and errors are tagged unions: reducers switch on the
// concrete type rather than dispatching through behavior interfaces.
//
// The deal / rotate / collect chain starts a round, ProcessMove applies
// player actions, TransitionPhase runs the streets, and CloseRound settles
// the showdown with layered side pots. CheckInvariants verifies card and
// chip conservation after every committed transition.
package engine

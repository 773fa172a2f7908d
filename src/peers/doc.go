// Package peers defines the neighbours of a peerchat node and the static ring
// overlay they are derived from.
//
// Peers do not discover each other. Every user owns a small range of
// consecutive UDP ports, computed from its user ID, and each peerchat process
// binds the first free port of that range. The range is treated as a line of
// adjacent ports: a process bound at either end of the range has a single
// neighbour, the port next to it, while a process bound in the middle has two,
// the ports right below and right above. The overlay never changes during the
// life of a process.
//
//  base      base+1    base+2    base+3
//   o ------- o ------- o ------- o
//
// With the default range of four ports, up to four processes of the same user
// on the same host form a connected chain and can converge with each other.
package peers

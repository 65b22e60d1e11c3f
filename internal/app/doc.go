// Package app wires the pieces of one boot attempt together: it configures
// logging, loads the deployment profile, builds the phase machine over the
// profile's topology, runs it, and feeds the verdict to the halt sink and
// optionally to the boot image writer.
package app

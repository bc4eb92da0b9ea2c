// Package cache stores synthesized narration audio so that replaying a
// sentence does not run the synthesizer again. It has a memory tier in front
// of a compressed disk tier.
package cache

// Package audio plays raw PCM narration through the system audio device
// using oto/v3.
package audio

// Package element abstracts the playable media element the transport
// controls: position, duration, play/pause, rate, native loop and the
// signals it fires. Sim is a clock-driven implementation for tests and the
// headless player.
package element

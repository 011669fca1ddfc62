// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

// defaultMinSCRAMIterations is the floor RFC 5802 implementations are
// expected to enforce; see DESIGN.md's Open Question (b) for why this
// defaults closed rather than accepting whatever a peer sends.
const defaultMinSCRAMIterations = 4096

// Config is the immutable, shareable configuration a Session is built from.
// Build one with Builder(); once built it is safe to share a *Config by
// reference across goroutines and use it to start any number of concurrent
// Sessions — only a Session itself requires exclusive access.
type Config struct {
	callback   Callback
	cbCallback ChannelBindingCallback

	filter Filter
	sorter Sorter
	reg    *registry

	validationTagName string

	minSCRAMIterations uint32
	allowWeakSCRAMIterations bool
}

// Callback returns the application callback installed on this Config.
func (c *Config) Callback() Callback { return c.callback }

// ChannelBindingCallback returns the channel-binding callback installed on
// this Config (NoChannelBindings if none was supplied).
func (c *Config) ChannelBindingCallback() ChannelBindingCallback { return c.cbCallback }

// MinSCRAMIterations returns the lowest SCRAM iteration count a client built
// from this Config accepts in a server-first message, and whether that floor
// may be undercut (both set by WithMinSCRAMIterations). A SCRAM server that
// derives keys from Password uses min as its iteration count.
func (c *Config) MinSCRAMIterations() (min uint32, allowWeak bool) {
	return c.minSCRAMIterations, c.allowWeakSCRAMIterations
}

// Mechanisms returns the descriptors this Config will negotiate over, in
// priority order.
func (c *Config) Mechanisms() []*Descriptor {
	return c.reg.eligible(c.filter, c.sorter)
}

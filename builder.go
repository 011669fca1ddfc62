// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

// Builder starts a typestate configuration chain for building a Config. Each
// stage exposes only the methods valid at that point, so a Config can't be
// finished with, say, a callback but no mechanism list — the compiler
// enforces this assembly order:
//
//	Builder().
//		WithDefaultMechanisms().
//		WithDefaultFilter().
//		WithDefaultSorting().
//		WithCallback(cb).
//		NoCBSupport(). // or WithCBSupport(cb)
//		NoValidation() // or WithValidation(stage, tag)
func Builder() BuilderWantMechanisms { return BuilderWantMechanisms{} }

// BuilderWantMechanisms is the builder's first stage.
type BuilderWantMechanisms struct{}

// WithDefaultMechanisms admits every builtin mechanism with no dynamically
// registered extras.
func (BuilderWantMechanisms) WithDefaultMechanisms() BuilderWantFilter {
	return BuilderWantFilter{reg: newRegistry(nil)}
}

// WithMechanisms admits every builtin mechanism plus extra, appended after
// the static set (see Registry.all's insertion-order guarantee).
func (BuilderWantMechanisms) WithMechanisms(extra ...*Descriptor) BuilderWantFilter {
	return BuilderWantFilter{reg: newRegistry(extra)}
}

// BuilderWantFilter is the builder's second stage.
type BuilderWantFilter struct {
	reg *registry
}

// WithDefaultFilter admits every registered descriptor.
func (b BuilderWantFilter) WithDefaultFilter() BuilderWantSorter {
	return BuilderWantSorter{reg: b.reg, filter: DefaultFilter}
}

// WithFilter installs a custom Filter.
func (b BuilderWantFilter) WithFilter(filter Filter) BuilderWantSorter {
	return BuilderWantSorter{reg: b.reg, filter: filter}
}

// BuilderWantSorter is the builder's third stage.
type BuilderWantSorter struct {
	reg    *registry
	filter Filter
}

// WithDefaultSorting sorts by Descriptor.Priority (see DefaultSorter).
func (b BuilderWantSorter) WithDefaultSorting() BuilderWantCallback {
	return BuilderWantCallback{reg: b.reg, filter: b.filter, sorter: DefaultSorter}
}

// WithSorting installs a custom Sorter.
func (b BuilderWantSorter) WithSorting(sorter Sorter) BuilderWantCallback {
	return BuilderWantCallback{reg: b.reg, filter: b.filter, sorter: sorter}
}

// BuilderWantCallback is the builder's fourth stage.
type BuilderWantCallback struct {
	reg    *registry
	filter Filter
	sorter Sorter
}

// WithCallback installs the application's Callback.
func (b BuilderWantCallback) WithCallback(cb Callback) BuilderWantCBSupport {
	return BuilderWantCBSupport{
		reg: b.reg, filter: b.filter, sorter: b.sorter, callback: cb,
		minSCRAMIterations: defaultMinSCRAMIterations,
	}
}

// BuilderWantCBSupport is the builder's fifth stage.
type BuilderWantCBSupport struct {
	reg      *registry
	filter   Filter
	sorter   Sorter
	callback Callback

	minSCRAMIterations       uint32
	allowWeakSCRAMIterations bool
}

// WithMinSCRAMIterations overrides the default SCRAM iteration-count floor
// (4096; see DESIGN.md's Open Question (b)). Setting allowWeak lets a peer
// go below min without the exchange being rejected outright — leave it
// false to reject unconditionally.
func (b BuilderWantCBSupport) WithMinSCRAMIterations(min uint32, allowWeak bool) BuilderWantCBSupport {
	b.minSCRAMIterations = min
	b.allowWeakSCRAMIterations = allowWeak
	return b
}

// WithCBSupport installs cb as the channel-binding callback, which makes the
// "-PLUS" SCRAM mechanism variants eligible for client negotiation. Whether
// cb actually has data for the binding type is only checked when a -PLUS
// exchange asks for it.
func (b BuilderWantCBSupport) WithCBSupport(cb ChannelBindingCallback) BuilderWantValidation {
	return BuilderWantValidation{
		reg: b.reg, filter: b.filter, sorter: b.sorter, callback: b.callback,
		cbCallback:               cb,
		minSCRAMIterations:       b.minSCRAMIterations,
		allowWeakSCRAMIterations: b.allowWeakSCRAMIterations,
	}
}

// NoCBSupport installs NoChannelBindings, so client negotiation skips every
// "-PLUS" mechanism. Server advertisement is unaffected; it follows
// Descriptor.Offer (see Advertise).
func (b BuilderWantCBSupport) NoCBSupport() BuilderWantValidation {
	return b.WithCBSupport(NoChannelBindings)
}

// BuilderWantValidation is the builder's sixth and final stage.
type BuilderWantValidation struct {
	reg        *registry
	filter     Filter
	sorter     Sorter
	callback   Callback
	cbCallback ChannelBindingCallback

	minSCRAMIterations       uint32
	allowWeakSCRAMIterations bool
}

// NoValidation finishes the Config using the package's no-op NoValidation
// tag — the right choice for client-only configs, or servers that judge
// success purely by whether Step returns ErrAuthenticationFailure.
func (b BuilderWantValidation) NoValidation() *Config {
	return WithValidation(b, NoValidation)
}

// WithValidation finishes the Config, binding tag as the type every Session
// built from it will use for its validation slot.
func WithValidation[V any](b BuilderWantValidation, tag ValidationTag[V]) *Config {
	return &Config{
		callback:                 b.callback,
		cbCallback:               b.cbCallback,
		filter:                   b.filter,
		sorter:                   b.sorter,
		reg:                      b.reg,
		validationTagName:        tag.Name(),
		minSCRAMIterations:       b.minSCRAMIterations,
		allowWeakSCRAMIterations: b.allowWeakSCRAMIterations,
	}
}

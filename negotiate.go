// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package sasl

// StartSuggested performs client-side negotiation: given the mechanism names
// a server offered, it walks the Config's eligible descriptors in priority
// order, keeps only the ones with a Client constructor whose Select
// predicate accepts the offered list, and starts a Session with the first
// (i.e. most preferred) match. "-PLUS" channel-binding descriptors are
// skipped when the Config was built with NoCBSupport.
//
// Negotiation is deterministic given a fixed registry, filter, sorter, and
// offered list — ties are broken by DefaultSorter's byte-order fallback
// unless a custom Sorter is installed.
func (cfg *Config) StartSuggested(offered []MechanismName) (*Session, error) {
	for _, d := range cfg.Mechanisms() {
		if d.Client == nil {
			continue
		}
		if d.ChannelBinding && (cfg.cbCallback == nil || cfg.cbCallback == NoChannelBindings) {
			continue
		}
		sel := d.Select
		if sel == nil {
			sel = selectExact(d.Name)
		}
		if !sel(offered) {
			continue
		}
		mech, err := d.Client(cfg)
		if err != nil {
			return nil, err
		}
		return newSession(cfg, SideClient, d, mech), nil
	}
	return nil, ErrNoMechanismAgreed
}

// StartServer performs server-side negotiation: given the single mechanism
// name a client chose, it looks the name up among the Config's eligible
// descriptors (ignoring Offer — a client is free to choose any mechanism
// the server's Registry knows about, whether or not it was advertised) and
// starts a Session with it. If the name has no Server constructor at all,
// StartServer returns ErrUnknownMechanism.
func (cfg *Config) StartServer(chosen MechanismName) (*Session, error) {
	d, ok := cfg.reg.lookup(chosen)
	if !ok || !cfg.filterAdmits(d) {
		return nil, ErrUnknownMechanism
	}
	if d.Server == nil {
		return nil, ErrUnknownMechanism
	}
	mech, err := d.Server(cfg)
	if err != nil {
		return nil, err
	}
	return newSession(cfg, SideServer, d, mech), nil
}

func (cfg *Config) filterAdmits(d *Descriptor) bool {
	f := cfg.filter
	if f == nil {
		f = DefaultFilter
	}
	return f(d)
}

// Advertise returns the mechanism names a server should offer to a client,
// honoring each eligible descriptor's Offer predicate — most importantly,
// hiding "-PLUS" channel-binding variants unless channel-binding data is
// actually available for this exchange. ctx may be nil; it exists so an
// Offer predicate can consult request-scoped properties beyond the Config
// itself if a caller has any.
func (cfg *Config) Advertise(ctx *Context) []MechanismName {
	var names []MechanismName
	for _, d := range cfg.Mechanisms() {
		if d.Server == nil {
			continue
		}
		offer := d.Offer
		if offer == nil {
			offer = alwaysOffer
		}
		if !offer(ctx) {
			continue
		}
		names = append(names, d.Name)
	}
	return names
}

// SuggestMechanism picks the single most-preferred client-capable mechanism
// a Config knows about without reference to any server offer at all, for
// protocols where the client must send the very first SASL message before
// it has seen a mechanism list — IMAP's bare AUTHENTICATE, for instance.
// Like StartSuggested, it skips "-PLUS" descriptors under NoCBSupport.
func (cfg *Config) SuggestMechanism() (MechanismName, bool) {
	for _, d := range cfg.Mechanisms() {
		if d.Client == nil {
			continue
		}
		if d.ChannelBinding && (cfg.cbCallback == nil || cfg.cbCallback == NoChannelBindings) {
			continue
		}
		return d.Name, true
	}
	return MechanismName{}, false
}

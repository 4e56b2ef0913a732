// Package udp provides UDP channel endpoints and channel-URI parsing for the udx driver
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package udp

import (
	"net/netip"
	"strings"

	"github.com/OneOfOne/xxhash"
	"github.com/pkg/errors"
	"github.com/udx-io/udx/cmn/cos"
)

// Channel URI grammar:
//
//	udx:<media>[?<name>=<value>(|<name>=<value>)*]
//
// e.g. udx:udp?endpoint=224.10.9.8:40456|interface=192.168.0.3|fc=min,t:10s

const (
	Scheme   = "udx"
	MediaUDP = "udp"

	ParamEndpoint  = "endpoint"
	ParamInterface = "interface"
	ParamFC        = "fc"
)

const mlcg32 = 0x9e3779b1 // xxhash seed

type (
	Param struct {
		Name  string
		Value string
	}
	// ordered; duplicate names permitted, first match wins on Get
	Params []Param

	Channel struct {
		URI      string
		Media    string
		Params   Params
		Endpoint netip.AddrPort
		digest   uint64
	}
)

func (params Params) Get(name string) (string, bool) {
	for i := range params {
		if params[i].Name == name {
			return params[i].Value, true
		}
	}
	return "", false
}

func ParseChannel(uri string) (*Channel, error) {
	rest, ok := strings.CutPrefix(uri, Scheme+":")
	if !ok {
		return nil, errors.Errorf("channel %q: expecting %q scheme", uri, Scheme)
	}
	c := &Channel{URI: uri}
	c.Media, rest, _ = strings.Cut(rest, "?")
	if c.Media != MediaUDP {
		return nil, errors.Errorf("channel %q: unsupported media %q", uri, c.Media)
	}
	for _, tok := range strings.Split(rest, "|") {
		if tok == "" {
			continue
		}
		name, value, ok := strings.Cut(tok, "=")
		if !ok || name == "" {
			return nil, errors.Errorf("channel %q: malformed param %q", uri, tok)
		}
		c.Params = append(c.Params, Param{Name: name, Value: value})
	}
	if ep, ok := c.Params.Get(ParamEndpoint); ok {
		addrPort, err := netip.ParseAddrPort(ep)
		if err != nil {
			return nil, errors.Wrapf(err, "channel %q: endpoint", uri)
		}
		c.Endpoint = addrPort
	}
	c.digest = xxhash.Checksum64S(cos.UnsafeB(uri), mlcg32)
	return c, nil
}

func (c *Channel) IsMulticast() bool {
	return c.Endpoint.IsValid() && c.Endpoint.Addr().IsMulticast()
}

// Digest is a stable 64-bit identity of the channel URI (map keys, log tags).
func (c *Channel) Digest() uint64 { return c.digest }

func (c *Channel) String() string { return c.URI }

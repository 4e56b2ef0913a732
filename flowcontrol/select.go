// Package flowcontrol computes the sender-side send limit of a publication from
// receiver status messages and periodic idle ticks (see README for strategy selection)
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package flowcontrol

import (
	"github.com/udx-io/udx/cmn"
	"github.com/udx-io/udx/cmn/cos"
	"github.com/udx-io/udx/cmn/nlog"
	"github.com/udx-io/udx/udp"
)

// short names accepted by the `fc` URI param
const (
	MaxStrategyName = "max"
	MinStrategyName = "min"
)

// canonical registry names for out-of-band supplier lookup (extension hook)
const (
	UnicastMaxSupplierName   = "udx_unicast_max_flow_control_strategy"
	MaxMulticastSupplierName = "udx_max_multicast_flow_control_strategy"
	MinMulticastSupplierName = "udx_min_multicast_flow_control_strategy"
)

var suppliers = map[string]Supplier{
	UnicastMaxSupplierName:   UnicastMaxSupplier,
	MaxMulticastSupplierName: MaxMulticastSupplier,
	MinMulticastSupplierName: MinMulticastSupplier,
}

func SupplierByName(name string) (Supplier, error) {
	if supplier, ok := suppliers[name]; ok {
		return supplier, nil
	}
	return nil, cos.NewErrNotFound("flow control strategy %q", name)
}

// SelectDefaultMulticast constructs the strategy for a multicast publication:
// the channel's `fc` param picks and parameterizes the strategy; absent the
// param, fallback decides. The parsed options are handed straight to the
// strategy constructors - the `fc` value is parsed exactly once.
func SelectDefaultMulticast(args *SupplierArgs, fallback Supplier) (Strategy, error) {
	fcValue, ok := args.Channel.Params.Get(udp.ParamFC)
	if !ok {
		return fallback(args)
	}
	opts, err := ParseOptions(fcValue)
	if err != nil {
		return nil, err
	}
	if opts.StrategyName == "" {
		return nil, &ErrInvalidFC{
			Reason:  "no strategy name specified",
			Field:   fcValue,
			Options: args.Channel.URI,
		}
	}
	switch opts.StrategyName {
	case MaxStrategyName:
		return MaxMulticastSupplier(args)
	case MinStrategyName:
		if opts.HasReceiverTag {
			return newPreferred(args, &opts), nil
		}
		return newMin(args, &opts), nil
	}
	return nil, &ErrInvalidFC{
		Reason:  "invalid strategy name",
		Field:   opts.StrategyName,
		Options: args.Channel.URI,
	}
}

// Select constructs the strategy for a new publication: unicast channels use
// the configured unicast default; multicast channels go through the `fc` URI
// param with the configured multicast default as the fallback.
func Select(args *SupplierArgs, cfg *cmn.FCConf) (Strategy, error) {
	var unicastName, multicastName string
	if cfg != nil {
		unicastName, multicastName = cfg.Unicast, cfg.Multicast
	}
	if !args.Channel.IsMulticast() {
		supplier, err := configuredSupplier(unicastName, UnicastMaxSupplierName)
		if err != nil {
			return nil, err
		}
		return supplier(args)
	}
	fallback, err := configuredSupplier(multicastName, MaxMulticastSupplierName)
	if err != nil {
		return nil, err
	}
	strategy, err := SelectDefaultMulticast(args, fallback)
	if err != nil {
		return nil, err
	}
	nlog.Infof("%s[%d]: flow control %T", args.Channel, args.StreamID, strategy)
	return strategy, nil
}

func configuredSupplier(name, dflt string) (Supplier, error) {
	if name == "" {
		name = dflt
	}
	return SupplierByName(name)
}

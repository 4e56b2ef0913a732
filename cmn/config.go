// Package cmn provides common constants, types, and utilities for the udx driver
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package cmn

import (
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/udx-io/udx/cmn/cos"
)

type (
	// Config is the driver configuration loaded once at startup.
	Config struct {
		LogDir      string     `json:"log_dir"`
		FlowControl FCConf     `json:"flow_control"`
		Timeouts    TimeoutCnf `json:"timeouts"`
	}
	FCConf struct {
		// default strategy names when the channel URI carries no `fc` param
		Unicast   string `json:"unicast"`
		Multicast string `json:"multicast"`
		// default receiver-liveness timeout; env vars and the `t:` URI field override
		ReceiverTimeout string `json:"receiver_timeout"`
		// hard cap on tracked receivers per publication; 0 - unbounded
		MaxReceivers int `json:"max_receivers"`
	}
	TimeoutCnf struct {
		StatusMessage string `json:"status_message"`
	}
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

func LoadConfig(fqn string) (*Config, error) {
	data, err := os.ReadFile(fqn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config %q", fqn)
	}
	config := &Config{}
	if err := jsonAPI.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %q", fqn)
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %q", fqn)
	}
	Rom.Set(config)
	return config, nil
}

func (c *Config) Validate() error {
	if c.FlowControl.ReceiverTimeout != "" {
		d, err := cos.ParseDuration(c.FlowControl.ReceiverTimeout)
		if err != nil {
			return errors.Wrap(err, "flow_control.receiver_timeout")
		}
		if d <= 0 {
			return errors.Errorf("flow_control.receiver_timeout must be positive, got %v", d)
		}
	}
	if c.FlowControl.MaxReceivers < 0 {
		return errors.Errorf("flow_control.max_receivers must be non-negative, got %d",
			c.FlowControl.MaxReceivers)
	}
	return nil
}

func (c *FCConf) ReceiverTimeoutD() time.Duration {
	if c.ReceiverTimeout == "" {
		return 0
	}
	d, err := cos.ParseDuration(c.ReceiverTimeout)
	if err != nil {
		return 0
	}
	return d
}

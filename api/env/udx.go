// Package env contains environment variables
/*
 * Copyright (c) 2021-2026, UDX Systems. All rights reserved.
 */
package env

var (
	UDX = struct {
		ConfigFile string
		LogDir     string
		// flow control: process-wide default receiver timeouts
		MinFCReceiverTimeout       string
		PreferredFCReceiverTimeout string
	}{
		ConfigFile: "UDX_CONF_FILE",
		LogDir:     "UDX_LOG_DIR",

		// same duration syntax as the `t:` field of the `fc` channel-URI param
		MinFCReceiverTimeout:       "UDX_MIN_MULTICAST_FLOW_CONTROL_RECEIVER_TIMEOUT",
		PreferredFCReceiverTimeout: "UDX_PREFERRED_MULTICAST_FLOW_CONTROL_RECEIVER_TIMEOUT",
	}
)

package models

// Protocol identifies the management protocol a channel speaks.
type Protocol int32

const (
	ProtocolUnknown Protocol = iota
	ProtocolGNMI
	ProtocolGNOI
	ProtocolP4Runtime
)

var protocolNames = map[Protocol]string{
	ProtocolUnknown:   "unknown",
	ProtocolGNMI:      "gnmi",
	ProtocolGNOI:      "gnoi",
	ProtocolP4Runtime: "p4runtime",
}

// Name returns the lowercase canonical name used in style labels.
// Unrecognized wire values degrade to "unknown".
func (p Protocol) Name() string {
	if name, ok := protocolNames[p]; ok {
		return name
	}
	return protocolNames[ProtocolUnknown]
}

// ConnectivityState reports whether the device answers on the channel's address.
type ConnectivityState int32

const (
	ConnectivityUnknown ConnectivityState = iota
	ConnectivityReachable
	ConnectivityUnreachable
)

var connectivityNames = map[ConnectivityState]string{
	ConnectivityUnknown:     "unknown",
	ConnectivityReachable:   "reachable",
	ConnectivityUnreachable: "unreachable",
}

func (c ConnectivityState) Name() string {
	if name, ok := connectivityNames[c]; ok {
		return name
	}
	return connectivityNames[ConnectivityUnknown]
}

// ServiceState reports whether the protocol service is usable on the channel.
type ServiceState int32

const (
	ServiceUnknown ServiceState = iota
	ServiceAvailable
	ServiceUnavailable
	ServiceConnecting
)

var serviceNames = map[ServiceState]string{
	ServiceUnknown:     "unknown",
	ServiceAvailable:   "available",
	ServiceUnavailable: "unavailable",
	ServiceConnecting:  "connecting",
}

func (s ServiceState) Name() string {
	if name, ok := serviceNames[s]; ok {
		return name
	}
	return serviceNames[ServiceUnknown]
}

// ChannelState reports the transport channel's connection status.
type ChannelState int32

const (
	ChannelUnknown ChannelState = iota
	ChannelConnected
	ChannelDisconnected
)

var channelNames = map[ChannelState]string{
	ChannelUnknown:      "unknown",
	ChannelConnected:    "connected",
	ChannelDisconnected: "disconnected",
}

func (c ChannelState) Name() string {
	if name, ok := channelNames[c]; ok {
		return name
	}
	return channelNames[ChannelUnknown]
}

// ProtocolState is the status of one management-protocol channel to a device.
// The three axes are independent; a device carries one ProtocolState per
// active channel.
type ProtocolState struct {
	Protocol     Protocol          `json:"protocol"`
	Connectivity ConnectivityState `json:"connectivity_state"`
	Service      ServiceState      `json:"service_state"`
	Channel      ChannelState      `json:"channel_state"`
}

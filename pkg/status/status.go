// Package status derives display ordering and style information from a
// device's per-protocol channel states.
package status

import "github.com/devicewatch/devicewatch/pkg/models"

// Axis weights. Each axis contributes an independent signed delta so a
// single channel's score stays within [-13, 13] and never collides across
// axes. Multiple channels accumulate additively without clamping.
const (
	connectivityWeight = 8
	serviceWeight      = 4
	connectingPenalty  = 2
	channelWeight      = 1
)

// Code folds all protocol states into a signed healthiness score used only
// for ordering, never displayed. Unknown axis values contribute nothing.
func Code(states []models.ProtocolState) int {
	score := 0

	for _, st := range states {
		switch st.Connectivity {
		case models.ConnectivityReachable:
			score += connectivityWeight
		case models.ConnectivityUnreachable:
			score -= connectivityWeight
		}

		switch st.Service {
		case models.ServiceAvailable:
			score += serviceWeight
		case models.ServiceUnavailable:
			score -= serviceWeight
		case models.ServiceConnecting:
			score -= connectingPenalty
		}

		switch st.Channel {
		case models.ChannelConnected:
			score += channelWeight
		case models.ChannelDisconnected:
			score -= channelWeight
		}
	}

	return score
}

// Labels emits two style tokens per protocol state, in input order:
// "<protocol>_<channel>" then "<protocol>_<connectivity>". The view layer
// maps these onto style classes. An empty input yields an empty slice.
func Labels(states []models.ProtocolState) []string {
	labels := make([]string, 0, 2*len(states))

	for _, st := range states {
		proto := st.Protocol.Name()
		labels = append(labels,
			proto+"_"+st.Channel.Name(),
			proto+"_"+st.Connectivity.Name())
	}

	return labels
}

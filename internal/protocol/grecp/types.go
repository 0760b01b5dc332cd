package grecp

import "fmt"

// MessageType is the high nibble of the message header.
type MessageType uint8

const (
	MessageSetupRequest MessageType = 1
	MessageSetupAccept  MessageType = 2
	MessageSetupDeny    MessageType = 3
	MessageHello        MessageType = 4
	MessageTearDown     MessageType = 5
	MessageNotify       MessageType = 6
)

var messageNames = map[MessageType]string{
	MessageSetupRequest: "GRE Tunnel Setup Request",
	MessageSetupAccept:  "GRE Tunnel Setup Accept",
	MessageSetupDeny:    "GRE Tunnel Setup Deny",
	MessageHello:        "GRE Tunnel Hello",
	MessageTearDown:     "GRE Tunnel Tear Down",
	MessageNotify:       "GRE Tunnel Notify",
}

func (t MessageType) String() string {
	if name, ok := messageNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MessageType(%d)", uint8(t))
}

// Known reports whether t is one of the six defined message types.
func (t MessageType) Known() bool {
	_, ok := messageNames[t]
	return ok
}

// TunnelType is the low nibble of the message header.
type TunnelType uint8

// Deployed HAAPs use 0 and 8; the protocol document says 1 and 2.
const (
	TunnelLTE           TunnelType = 0
	TunnelLTEDocumented TunnelType = 1
	TunnelDSLDocumented TunnelType = 2
	TunnelDSL           TunnelType = 8
)

func (t TunnelType) String() string {
	switch t {
	case TunnelLTE:
		return "LTE"
	case TunnelDSL:
		return "DSL"
	case TunnelLTEDocumented:
		return "LTE (documented)"
	case TunnelDSLDocumented:
		return "DSL (documented)"
	}
	return fmt.Sprintf("TunnelType(%d)", uint8(t))
}

// AttributeID selects the value shape of an attribute.
type AttributeID uint8

const (
	AttrHIPv4Address                     AttributeID = 1
	AttrHIPv6Address                     AttributeID = 2
	AttrClientIdentificationName         AttributeID = 3
	AttrSessionID                        AttributeID = 4
	AttrTimestamp                        AttributeID = 5
	AttrBypassTrafficRate                AttributeID = 6
	AttrDSLSynchronizationRate           AttributeID = 7
	AttrFilterListPackage                AttributeID = 8
	AttrRTTDifferenceThreshold           AttributeID = 9
	AttrBypassBandwidthCheckInterval     AttributeID = 10
	AttrSwitchingToDSLTunnel             AttributeID = 11
	AttrOverflowingToLTETunnel           AttributeID = 12
	AttrIPv6PrefixAssignedByHAAP         AttributeID = 13
	AttrActiveHelloInterval              AttributeID = 14
	AttrHelloRetryTimes                  AttributeID = 15
	AttrIdleTimeout                      AttributeID = 16
	AttrErrorCode                        AttributeID = 17
	AttrDSLLinkFailure                   AttributeID = 18
	AttrLTELinkFailure                   AttributeID = 19
	AttrBondingKeyValue                  AttributeID = 20
	AttrIPv6PrefixAssignedToHost         AttributeID = 21
	AttrConfiguredDSLUpstreamBandwidth   AttributeID = 22
	AttrConfiguredDSLDownstreamBandwidth AttributeID = 23
	AttrRTTDifferenceThresholdViolation  AttributeID = 24
	AttrRTTDifferenceThresholdCompliance AttributeID = 25
	AttrDiagnosticStartBondingTunnel     AttributeID = 26
	AttrDiagnosticStartDSLTunnel         AttributeID = 27
	AttrDiagnosticStartLTETunnel         AttributeID = 28
	AttrDiagnosticEnd                    AttributeID = 29
	AttrFilterListPackageAck             AttributeID = 30
	AttrIdleHelloInterval                AttributeID = 31
	AttrNoTrafficMonitoredInterval       AttributeID = 32
	AttrSwitchingToActiveHelloState      AttributeID = 33
	AttrSwitchingToIdleHelloState        AttributeID = 34
	AttrTunnelVerification               AttributeID = 35
	AttrDSLAccessConcentratorName        AttributeID = 54  // seen on the wire, undocumented
	AttrMagicPadding                     AttributeID = 255 // seen on the wire, undocumented
)

var attributeNames = map[AttributeID]string{
	AttrHIPv4Address:                     "H IPv4 Address",
	AttrHIPv6Address:                     "H IPv6 Address",
	AttrClientIdentificationName:         "Client Identification Name",
	AttrSessionID:                        "Session ID",
	AttrTimestamp:                        "Timestamp",
	AttrBypassTrafficRate:                "Bypass Traffic Rate",
	AttrDSLSynchronizationRate:           "DSL Synchronization Rate",
	AttrFilterListPackage:                "Filter List Package",
	AttrRTTDifferenceThreshold:           "RTT Difference Threshold",
	AttrBypassBandwidthCheckInterval:     "Bypass Bandwidth Check Interval",
	AttrSwitchingToDSLTunnel:             "Switching to DSL Tunnel",
	AttrOverflowingToLTETunnel:           "Overflowing to LTE Tunnel",
	AttrIPv6PrefixAssignedByHAAP:         "IPv6 Prefix Assigned by HAAP",
	AttrActiveHelloInterval:              "Active Hello Interval",
	AttrHelloRetryTimes:                  "Hello Retry Times",
	AttrIdleTimeout:                      "Idle Timeout",
	AttrErrorCode:                        "Error Code",
	AttrDSLLinkFailure:                   "DSL Link Failure",
	AttrLTELinkFailure:                   "LTE Link Failure",
	AttrBondingKeyValue:                  "Bonding Key Value",
	AttrIPv6PrefixAssignedToHost:         "IPv6 Prefix Assigned to Host",
	AttrConfiguredDSLUpstreamBandwidth:   "Configured DSL Upstream Bandwidth",
	AttrConfiguredDSLDownstreamBandwidth: "Configured DSL Downstream Bandwidth",
	AttrRTTDifferenceThresholdViolation:  "RTT Difference Threshold Violation",
	AttrRTTDifferenceThresholdCompliance: "RTT Difference Threshold Compliance",
	AttrDiagnosticStartBondingTunnel:     "Diagnostic Start: Bonding Tunnel",
	AttrDiagnosticStartDSLTunnel:         "Diagnostic Start: DSL Tunnel",
	AttrDiagnosticStartLTETunnel:         "Diagnostic Start: LTE Tunnel",
	AttrDiagnosticEnd:                    "Diagnostic End",
	AttrFilterListPackageAck:             "Filter List Package ACK",
	AttrIdleHelloInterval:                "Idle Hello Interval",
	AttrNoTrafficMonitoredInterval:       "No Traffic Monitored Interval",
	AttrSwitchingToActiveHelloState:      "Switching to Active Hello State",
	AttrSwitchingToIdleHelloState:        "Switching to Idle Hello State",
	AttrTunnelVerification:               "Tunnel Verification",
	AttrDSLAccessConcentratorName:        "DSL Access Concentrator Name",
	AttrMagicPadding:                     "Magic Padding",
}

func (id AttributeID) String() string {
	if name, ok := attributeNames[id]; ok {
		return name
	}
	return fmt.Sprintf("AttributeID(%d)", uint8(id))
}

// FilterItemType is the match criterion of a filter list item.
type FilterItemType uint16

const (
	FilterFQDN                   FilterItemType = 1
	FilterDSCP                   FilterItemType = 2
	FilterDestinationPort        FilterItemType = 3
	FilterDestinationIP          FilterItemType = 4
	FilterDestinationIPPort      FilterItemType = 5
	FilterSourcePort             FilterItemType = 6
	FilterSourceIP               FilterItemType = 7
	FilterSourceIPPort           FilterItemType = 8
	FilterSourceMAC              FilterItemType = 9
	FilterProtocol               FilterItemType = 10
	FilterSourceIPRange          FilterItemType = 11
	FilterDestinationIPRange     FilterItemType = 12
	FilterSourceIPRangePort      FilterItemType = 13
	FilterDestinationIPRangePort FilterItemType = 14
)

var filterItemNames = map[FilterItemType]string{
	FilterFQDN:                   "FQDN",
	FilterDSCP:                   "DSCP",
	FilterDestinationPort:        "Destination Port",
	FilterDestinationIP:          "Destination IP",
	FilterDestinationIPPort:      "Destination IP & Port",
	FilterSourcePort:             "Source Port",
	FilterSourceIP:               "Source IP",
	FilterSourceIPPort:           "Source IP & Port",
	FilterSourceMAC:              "Source MAC",
	FilterProtocol:               "Protocol",
	FilterSourceIPRange:          "Source IP Range",
	FilterDestinationIPRange:     "Destination IP Range",
	FilterSourceIPRangePort:      "Source IP Range & Port",
	FilterDestinationIPRangePort: "Destination IP Range & Port",
}

func (t FilterItemType) String() string {
	if name, ok := filterItemNames[t]; ok {
		return name
	}
	return fmt.Sprintf("FilterItemType(%d)", uint16(t))
}

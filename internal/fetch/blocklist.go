package fetch

import "net"

// blockedIPv4 is the fixed set of IPv4 ranges a resolved address may never
// fall into.
var blockedIPv4 = mustParseCIDRs(
	"0.0.0.0/8",
	"10.0.0.0/8",
	"100.64.0.0/10",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"224.0.0.0/4",
	"240.0.0.0/4",
)

// blockedIPv6 excludes ::ffff:0:0/96, whose embedded IPv4 address is
// checked against blockedIPv4 separately (see isBlocked).
var blockedIPv6 = mustParseCIDRs(
	"::1/128",
	"fc00::/7",
	"fe80::/10",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic("fetch: invalid CIDR literal " + c)
		}
		nets = append(nets, n)
	}
	return nets
}

// isBlocked reports whether ip falls into any disallowed range, applying
// the IPv4 rules to the embedded address of an IPv4-mapped IPv6 address.
func isBlocked(ip net.IP) bool {
	if v4 := ip.To4(); v4 != nil {
		for _, n := range blockedIPv4 {
			if n.Contains(v4) {
				return true
			}
		}
		return false
	}
	for _, n := range blockedIPv6 {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// anyBlocked rejects if *any* resolved address is blocked, not merely "all"
// — this defeats split-horizon DNS games (§4.3).
func anyBlocked(ips []net.IP) bool {
	for _, ip := range ips {
		if isBlocked(ip) {
			return true
		}
	}
	return false
}

package config

import (
	"fmt"
	"net"
	"strconv"
)

func (g GatewayConfig) ResolvedAddr() string {
	host := g.Host
	if host == "" {
		host = "0.0.0.0"
	}
	return net.JoinHostPort(host, strconv.Itoa(g.Port))
}

func (g GatewayConfig) String() string {
	return fmt.Sprintf("gateway(%s, auth=%t, rpm=%d)", g.ResolvedAddr(), g.Token != "", g.RequestsPerMinute)
}

// Visual Logger
// Copyright (c) 2026 The Visual Logger Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Visual Logger.
//
// Visual Logger is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Visual Logger is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Visual Logger.  If not, see <http://www.gnu.org/licenses/>.

package middleware

import (
	"net"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ParseRemoteIP extracts the IP from a RemoteAddr string in IP:port form.
func ParseRemoteIP(remoteAddr string) net.IP {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	return net.ParseIP(host)
}

func IsLoopbackAddr(remoteAddr string) bool {
	ip := ParseRemoteIP(remoteAddr)
	return ip != nil && ip.IsLoopback()
}

// IPFilter is an allowlist of client IPs and CIDR ranges. An empty filter
// allows everyone; a filter made only of invalid entries allows only
// loopback clients.
type IPFilter struct {
	nets       []*net.IPNet
	addrs      []net.IP
	configured bool
}

func NewIPFilter(allowed []string) *IPFilter {
	f := &IPFilter{configured: len(allowed) > 0}
	for _, entry := range allowed {
		if host, _, err := net.SplitHostPort(entry); err == nil {
			entry = host
		}
		if _, network, err := net.ParseCIDR(entry); err == nil {
			f.nets = append(f.nets, network)
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			f.addrs = append(f.addrs, ip)
			continue
		}
		log.Warn().Str("ip", entry).Msg("invalid IP or CIDR in allowed_ips, skipping")
	}
	return f
}

func (f *IPFilter) Empty() bool {
	return !f.configured
}

// IsAllowed reports whether remoteAddr may use the API. Loopback clients
// are always allowed.
func (f *IPFilter) IsAllowed(remoteAddr string) bool {
	if f.Empty() {
		return true
	}
	ip := ParseRemoteIP(remoteAddr)
	if ip == nil {
		log.Warn().Str("addr", remoteAddr).Msg("failed to parse IP address")
		return false
	}
	if ip.IsLoopback() {
		return true
	}
	for _, allowed := range f.addrs {
		if ip.Equal(allowed) {
			return true
		}
	}
	for _, network := range f.nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// HTTPIPFilterMiddleware rejects requests, including websocket upgrades,
// from clients outside the allowlist.
func HTTPIPFilterMiddleware(filter *IPFilter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !filter.IsAllowed(r.RemoteAddr) {
				log.Debug().
					Str("addr", r.RemoteAddr).
					Str("path", r.URL.Path).
					Msg("request from blocked IP")
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

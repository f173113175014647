package models

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ScanConfig
		wantErr bool
	}{
		{name: "ipv4", cfg: ScanConfig{Target: netip.MustParseAddr("10.0.0.1"), Workers: DefaultWorkers}},
		{name: "ipv6", cfg: ScanConfig{Target: netip.MustParseAddr("::1"), Workers: 65535}},
		{name: "no target", cfg: ScanConfig{Workers: 4}, wantErr: true},
		{name: "no workers", cfg: ScanConfig{Target: netip.MustParseAddr("10.0.0.1")}, wantErr: true},
		{name: "zero value", cfg: ScanConfig{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestScanConfig_Address(t *testing.T) {
	tests := []struct {
		target string
		port   uint16
		want   string
	}{
		{target: "127.0.0.1", port: 22, want: "127.0.0.1:22"},
		{target: "192.168.1.1", port: 65534, want: "192.168.1.1:65534"},
		{target: "::1", port: 80, want: "[::1]:80"},
		{target: "fe80::1%eth0", port: 8080, want: "[fe80::1%eth0]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			cfg := ScanConfig{Target: netip.MustParseAddr(tt.target), Workers: 1}
			assert.Equal(t, tt.want, cfg.Address(tt.port))
		})
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspnmy/stripescan/internal/args"
	"github.com/aspnmy/stripescan/internal/core"
)

func TestRun_Help(t *testing.T) {
	for _, flag := range []string{"-h", "--help"} {
		t.Run(flag, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run([]string{"/usr/local/bin/stripescan", flag}, &stdout, &stderr)

			assert.Equal(t, 0, code)
			assert.Equal(t, fmt.Sprintf(args.Usage, "stripescan"), stdout.String())
			assert.Empty(t, stderr.String())
		})
	}
}

func TestRun_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{
			name: "no arguments",
			argv: []string{"stripescan"},
			want: "stripescan problem parsing arguments: not enough arguments\n",
		},
		{
			name: "help with extra",
			argv: []string{"stripescan", "-h", "x"},
			want: "stripescan problem parsing arguments: too many arguments\n",
		},
		{
			name: "bad thread count",
			argv: []string{"stripescan", "-j", "abc", "1.2.3.4"},
			want: "stripescan problem parsing arguments: failed to parse thread number: \"abc\"\n",
		},
		{
			name: "bad address",
			argv: []string{"stripescan", "-j", "10", "not-an-ip"},
			want: "stripescan problem parsing arguments: not a valid IPADDR; must be IPv4 or IPv6: \"not-an-ip\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.argv, &stdout, &stderr)

			assert.Equal(t, 1, code)
			assert.Empty(t, stdout.String())
			assert.Equal(t, tt.want, stderr.String())
		})
	}
}

func TestRun_EmptyArgv(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Equal(t, "stripescan problem parsing arguments: not enough arguments\n", stderr.String())
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("STRIPESCAN_OUTPUT_FORMAT", "xml")

	var stdout, stderr bytes.Buffer
	code := run([]string{"stripescan", "127.0.0.1"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "invalid output format")
}

// listen opens a loopback listener that accepts and drops connections
func listen(t *testing.T) uint16 {
	t.Helper()
	if testing.Short() {
		t.Skip("dials the whole loopback port range")
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "failed to create listener")
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	if port == 65535 {
		t.Skip("65535 is outside every stripe below stride 65535")
	}
	return uint16(port) //nolint:gosec // G115: listener port
}

func TestRun_JSONKeepsStdoutClean(t *testing.T) {
	port := listen(t)
	t.Setenv(core.ConfigEnv, "")
	t.Setenv("STRIPESCAN_OUTPUT_FORMAT", "json")

	var stdout, stderr bytes.Buffer
	code := run([]string{"stripescan", "-j", "512", "127.0.0.1"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var report struct {
		Target    string   `json:"target"`
		Workers   int      `json:"workers"`
		OpenPorts []uint16 `json:"open_ports"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report), stdout.String())

	assert.Equal(t, "127.0.0.1", report.Target)
	assert.Equal(t, 512, report.Workers)
	assert.Contains(t, report.OpenPorts, port)
	assert.True(t, slices.IsSorted(report.OpenPorts))

	assert.Equal(t, strings.Repeat(".", len(report.OpenPorts))+"\n", stderr.String())
}

func TestRun_PlainStreamsDotsToStdout(t *testing.T) {
	port := listen(t)
	t.Setenv(core.ConfigEnv, "")
	t.Setenv("STRIPESCAN_OUTPUT_FORMAT", "plain")

	var stdout, stderr bytes.Buffer
	code := run([]string{"stripescan", "-j", "512", "127.0.0.1"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Empty(t, stderr.String())

	dots, list, ok := strings.Cut(stdout.String(), "\n")
	require.True(t, ok, stdout.String())

	lines := strings.Split(strings.TrimSuffix(list, "\n"), "\n")
	assert.Equal(t, strings.Repeat(".", len(lines)), dots)

	ports := make([]uint16, 0, len(lines))
	for _, line := range lines {
		num, found := strings.CutSuffix(line, " is open")
		require.True(t, found, line)
		p, err := strconv.ParseUint(num, 10, 16)
		require.NoError(t, err)
		ports = append(ports, uint16(p))
	}
	assert.True(t, slices.IsSorted(ports))
	assert.Contains(t, ports, port)
}

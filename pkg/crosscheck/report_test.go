package crosscheck

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/danpilch/ifstat/pkg/collectors/network"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name  string
	stats map[string]network.Counters
	err   error
}

func (f fakeSource) Name() string { return f.name }

func (f fakeSource) Counters() (map[string]network.Counters, error) {
	return f.stats, f.err
}

func testSnapshot() *network.Snapshot {
	return &network.Snapshot{
		Interfaces: []network.InterfaceStats{
			{
				Name:        "eth0",
				IPv4Address: "192.0.2.10",
				Counters: network.Counters{
					SpeedMbps: 1000,
					RxBytes:   1000,
					RxPackets: 10,
					TxBytes:   500,
					TxPackets: 5,
				},
			},
		},
	}
}

func TestRunCrossChecks(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sources := []CounterSource{
		fakeSource{name: "procfs", stats: map[string]network.Counters{
			"eth0": {RxBytes: 1000, RxPackets: 10, TxBytes: 500, TxPackets: 5},
		}},
		fakeSource{name: "broken", err: errors.New("permission denied")},
		fakeSource{name: "other", stats: map[string]network.Counters{"wlan0": {}}},
	}

	validations, sanity := RunCrossChecks(testSnapshot(), sources, logger)

	require.Len(t, validations, len(network.TrafficCounters))
	for _, v := range validations {
		assert.Equal(t, "eth0", v.Interface)
		assert.Len(t, v.Sources, 2)
		assert.Equal(t, StatusValid, v.Status)
	}

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "broken", hook.LastEntry().Data["source"])

	for _, s := range sanity {
		assert.True(t, s.Passed, s.Check)
	}
}

func TestRunCrossChecks_Conflict(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sources := []CounterSource{
		fakeSource{name: "procfs", stats: map[string]network.Counters{
			"eth0": {RxBytes: 9000, RxPackets: 10, TxBytes: 500, TxPackets: 5},
		}},
	}

	validations, _ := RunCrossChecks(testSnapshot(), sources, logger)

	var rx ValidationResult
	for _, v := range validations {
		if v.Counter == network.RxBytes {
			rx = v
		}
	}
	assert.Equal(t, StatusConflict, rx.Status)
}

func TestRunSanityChecks(t *testing.T) {
	snapshot := &network.Snapshot{
		Interfaces: []network.InterfaceStats{
			{Name: "eth0", IPv4Address: "192.0.2.1", Counters: network.Counters{RxBytes: 10, RxPackets: 20}},
			{Name: "eth0", IPv4Address: "not-an-ip", Counters: network.Counters{SpeedMbps: 1000000}},
		},
	}

	failed := map[string]bool{}
	for _, r := range RunSanityChecks(snapshot) {
		if !r.Passed {
			failed[r.Check] = true
		}
	}

	assert.True(t, failed["eth0 rx bytes >= packets"])
	assert.True(t, failed["eth0 unique"])
	assert.True(t, failed["eth0 speed"])
	assert.True(t, failed["eth0 ipv4 address"])
	assert.False(t, failed["eth0 tx bytes >= packets"])
}

func TestReport(t *testing.T) {
	validations := []ValidationResult{
		NewValidator().CrossCheck("eth0", network.RxBytes, []Source{{"sysfs", 100}, {"netlink", 300}}),
	}
	sanity := []SanityResult{{Check: "eth0 rx bytes >= packets", Passed: true}}

	var buf bytes.Buffer
	Report(&buf, validations, sanity)

	out := buf.String()
	assert.Contains(t, out, "Cross-Check Validation Report")
	assert.Contains(t, out, "eth0 rx_bytes")
	assert.Contains(t, out, "netlink=300")
	assert.Contains(t, out, "CONFLICT")
	assert.Contains(t, out, "All 1 sanity checks passed.")
}

func TestReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ReportJSON(&buf, nil, nil))

	var doc map[string][]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.NotNil(t, doc["validations"])
	assert.NotNil(t, doc["sanity"])
}

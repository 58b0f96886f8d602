package find

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kvesta/navi/pkg/vulndb"
	"github.com/kvesta/navi/pkg/workbench"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

const (
	longFQDN       = "very-long-hostname-that-keeps-going.subdomain.example.internal"
	longPluginName = "Target Credential Status by Authentication Protocol - Failure for Provided Credentials"

	dockerOutput = "The following Docker containers are running:\n\n" +
		"  Container ID : 3f1c2a\n" +
		"  Image : nginx:latest\n" +
		"  Port : 80/tcp\n"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func scanInfo(seconds string) string {
	return "Information about this scan : \n\n" +
		"Nessus version : 10.4.1\n" +
		"Scan Start Date : 2023/1/1 10:00 UTC\n" +
		"Scan duration : " + seconds + " sec\n"
}

// seed builds a cache with two known assets and one orphan finding
func seed(t *testing.T) *vulndb.Client {
	t.Helper()

	cli, err := vulndb.Open(filepath.Join(t.TempDir(), "navi.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cli.Close() })

	_, err = cli.DB.Exec(`INSERT INTO assets (ip_address, hostname, fqdn, uuid, network) VALUES
		('10.0.0.1', 'web1', 'web1.example.com', 'a-1', 'net-1'),
		('10.0.0.2', 'db1', ?, 'a-2', 'net-1')`, longFQDN)
	require.NoError(t, err)

	findings := []struct {
		ip, uuid, plugin, name, port, output, cves, exploit string
		started, completed, scan                          string
	}{
		{ip: "10.0.0.1", uuid: "a-1", plugin: "19506", output: scanInfo("360"), started: "start-1", completed: "finish-1", scan: "scan-1"},
		{ip: "10.0.0.2", uuid: "a-2", plugin: "19506", output: scanInfo("240"), started: "start-2", completed: "finish-2", scan: "scan-2"},
		{ip: "10.0.0.3", uuid: "a-3", plugin: "19506", output: "scan aborted", scan: "scan-3"},
		{ip: "10.0.0.1", uuid: "a-1", plugin: "12053", output: "\n10.0.0.1 resolves as web1.example.com.\n"},
		{ip: "10.0.0.1", uuid: "a-1", plugin: "22964", port: "443", output: "A web server is running on this port through TLS."},
		{ip: "10.0.0.1", uuid: "a-1", plugin: "22964", port: "80", output: "A web server is running on this port."},
		{ip: "10.0.0.1", uuid: "a-1", plugin: "22964", port: "22", output: "An SSH server is running on this port."},
		{ip: "10.0.0.1", uuid: "a-1", plugin: "93561", port: "0", output: dockerOutput},
		{ip: "10.0.0.2", uuid: "a-2", plugin: "11219", port: "443", name: "Nessus SYN scanner", output: "Port 443/tcp was found to be open"},
		{ip: "10.0.0.1", uuid: "a-1", plugin: "10107", port: "80", name: "HTTP Server Type and Version",
			output: "The remote web server type is :\n\nApache/2.4.49", cves: "CVE-2021-41773,CVE-2021-42013", exploit: "True"},
		{ip: "10.0.0.2", uuid: "a-2", plugin: "104410", port: "0", name: longPluginName, exploit: "False"},
	}

	for _, v := range findings {
		_, err = cli.DB.Exec(`INSERT INTO vulns (asset_ip, asset_uuid, plugin_id, plugin_name, port, output,
			cves, exploit, scan_started, scan_completed, scan_uuid) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.ip, v.uuid, v.plugin, v.name, v.port, v.output, v.cves, v.exploit, v.started, v.completed, v.scan)
		require.NoError(t, err)
	}

	return cli
}

func newTestFinder(store Querier, wb AssetSearcher) (*Finder, *bytes.Buffer) {
	var buf bytes.Buffer

	f := New(store, wb)
	f.Out = &buf

	return f, &buf
}

// tableRows returns the whitespace separated fields of every line
// after the first dashed rule, up to the next blank line
func tableRows(out string) [][]string {
	var rows [][]string

	inTable := false
	for _, line := range strings.Split(out, "\n") {
		if !inTable {
			inTable = strings.HasPrefix(line, "-----")
			continue
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		rows = append(rows, strings.Fields(line))
	}

	return rows
}

type stubResult struct {
	match string
	res   *vulndb.Result
}

type fakeStore struct {
	statements []string
	results    []stubResult
	err        error
}

func (s *fakeStore) Query(ctx context.Context, statement string) (*vulndb.Result, error) {
	s.statements = append(s.statements, statement)

	if s.err != nil {
		return nil, s.err
	}

	for _, r := range s.results {
		if strings.Contains(statement, r.match) {
			return r.res, nil
		}
	}

	return &vulndb.Result{}, nil
}

type fakeWorkbench struct {
	assets map[string][]workbench.Asset
	err    error
	calls  []workbench.Filter
}

func (w *fakeWorkbench) Assets(ctx context.Context, filters ...workbench.Filter) ([]workbench.Asset, error) {
	w.calls = append(w.calls, filters...)

	if w.err != nil {
		return nil, w.err
	}

	return w.assets[filters[0].Value], nil
}

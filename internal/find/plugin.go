package find

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kvesta/navi/config"
	"github.com/kvesta/navi/internal/report"
)

const assetJoin = "from vulns LEFT JOIN assets ON asset_uuid = uuid"

// ByPlugin lists every asset where pluginID fired
func (f *Finder) ByPlugin(ctx context.Context, pluginID string) error {
	res, err := f.Store.Query(ctx, fmt.Sprintf(
		"SELECT asset_ip, asset_uuid, fqdn, network %s where plugin_id='%s';", assetJoin, pluginID))
	if err != nil {
		return err
	}

	report.AssetHeader(f.Out)

	for _, r := range res.Rows {
		report.AssetRow(f.Out, pluginID, r[0], r[2], r[1], r[3])
	}

	f.println()

	return nil
}

// Plugin lists assets where pluginID fired, optionally only those
// whose plugin output contains text
func (f *Finder) Plugin(ctx context.Context, pluginID, text string) error {
	if !isDigits(pluginID) {
		f.warn("You didn't enter a number")
		return nil
	}

	if text == "" {
		return f.ByPlugin(ctx, pluginID)
	}

	report.AssetHeader(f.Out)

	res, err := f.Store.Query(ctx, fmt.Sprintf(
		"SELECT asset_ip, asset_uuid, fqdn, network %s where plugin_id='%s' and output LIKE '%%%s%%';",
		assetJoin, pluginID, text))
	if err != nil {
		return err
	}

	for _, r := range res.Rows {
		report.AssetRow(f.Out, pluginID, r[0], r[2], r[1], r[3])
	}

	f.println()

	return nil
}

func (f *Finder) CVE(ctx context.Context, cveID string) error {
	if utf8.RuneCountInString(cveID) < 10 {
		f.warn("\nThis is likely not a CVE...Try again...\n")
		return nil
	}

	if !strings.Contains(cveID, "CVE") {
		f.warn("\nYou must have 'CVE' in your CVE string. EX: CVE-1111-2222\n")
		return nil
	}

	return f.pluginTable(ctx, fmt.Sprintf(
		"SELECT asset_ip, asset_uuid, fqdn, plugin_id, network %s where cves LIKE '%%%s%%';", assetJoin, cveID))
}

func (f *Finder) Exploit(ctx context.Context) error {
	return f.pluginTable(ctx, fmt.Sprintf(
		"SELECT asset_ip, asset_uuid, fqdn, plugin_id, network %s where exploit = 'True';", assetJoin))
}

// Output searches the output of every plugin for text
func (f *Finder) Output(ctx context.Context, text string) error {
	return f.pluginTable(ctx, fmt.Sprintf(
		"SELECT asset_ip, asset_uuid, fqdn, plugin_id, network %s where output LIKE '%%%s%%';", assetJoin, text))
}

func (f *Finder) Docker(ctx context.Context) error {
	f.println("Searching for RUNNING docker containers...")
	return f.ByPlugin(ctx, PluginDocker)
}

func (f *Finder) Creds(ctx context.Context) error {
	f.println(config.Green("\nBelow are the Assets that have had Credential issues\n"))
	return f.ByPlugin(ctx, PluginCredentials)
}

// Port lists assets where one of the port scanner plugins saw port open
func (f *Finder) Port(ctx context.Context, port string) error {
	plugins := make([]string, 0, len(OpenPortPlugins))
	for _, p := range OpenPortPlugins {
		plugins = append(plugins, fmt.Sprintf("plugin_id='%s'", p))
	}

	res, err := f.Store.Query(ctx, fmt.Sprintf(
		"SELECT plugin_id, asset_ip, asset_uuid, fqdn, network %s where port=%s and (%s);",
		assetJoin, port, strings.Join(plugins, " or ")))
	if err != nil {
		return err
	}

	f.println(config.Green("\nThe Following assets had Open ports found by various plugins"))
	report.AssetHeader(f.Out)

	for _, r := range res.Rows {
		report.AssetRow(f.Out, r[0], r[1], r[3], r[2], r[4])
	}

	f.println()

	return nil
}

// Name searches plugin names for text
func (f *Finder) Name(ctx context.Context, text string) error {
	res, err := f.Store.Query(ctx, fmt.Sprintf(
		"SELECT asset_ip, asset_uuid, plugin_name, plugin_id from vulns where plugin_name LIKE '%%%s%%';", text))
	if err != nil {
		return err
	}

	f.println(config.Green(fmt.Sprintf("\nThe Following assets had '%s' in the Plugin Name", text)))
	report.NameHeader(f.Out)

	for _, r := range res.Rows {
		report.NameRow(f.Out, r[3], r[0], r[1], r[2])
	}

	f.println()

	return nil
}

// pluginTable prints rows shaped (asset_ip, asset_uuid, fqdn, plugin_id, network)
func (f *Finder) pluginTable(ctx context.Context, statement string) error {
	report.AssetHeader(f.Out)

	res, err := f.Store.Query(ctx, statement)
	if err != nil {
		return err
	}

	for _, r := range res.Rows {
		report.AssetRow(f.Out, r[3], r[0], r[2], r[1], r[4])
	}

	f.println()

	return nil
}

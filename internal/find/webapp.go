package find

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kvesta/navi/config"
	"github.com/kvesta/navi/internal/report"

	log "github.com/sirupsen/logrus"
)

// WebApp guesses web application URLs per asset: the host name comes from
// the FQDN plugin, ports from the service detection plugin, and the docker
// plugin adds the containers that may serve them
func (f *Finder) WebApp(ctx context.Context) error {
	f.println(config.Green("\nPotential Web Applications Report\n"))

	res, err := f.Store.Query(ctx, fmt.Sprintf(
		"SELECT output, asset_uuid, asset_ip, network %s where plugin_id ='%s';", assetJoin, PluginHostFQDN))
	if err != nil {
		return err
	}

	for _, r := range res.Rows {
		host, ok := webHost(r[0])
		if !ok {
			log.Debugf("skip asset %s, no host name in output %q", r[1], r[0])
			continue
		}

		uuid := r[1]

		f.println()
		report.Rule(f.Out, "*", 50)
		f.printf("Asset IP: %s\n", r[2])
		f.printf("Asset UUID: %s\n", uuid)
		f.printf("Network UUID: %s\n", r[3])
		report.Rule(f.Out, "*", 50)

		services, err := f.Store.Query(ctx, fmt.Sprintf(
			"SELECT output, port FROM vulns where plugin_id ='%s' and asset_uuid='%s';", PluginServices, uuid))
		if err != nil {
			return err
		}

		f.println("\nWeb Apps Found")
		report.Rule(f.Out, "-", 14)

		for _, s := range services.Rows {
			if u, ok := webURL(s[0], host, s[1]); ok {
				f.println(u)
			}
		}

		containers, err := f.Store.Query(ctx, fmt.Sprintf(
			"SELECT output, port FROM vulns where plugin_id ='%s' and asset_uuid='%s';", PluginDocker, uuid))
		if err != nil {
			return err
		}

		if len(containers.Rows) > 0 {
			f.printf("\nThese web apps might be running on one or more of these containers:\n\n")
		}

		for _, c := range containers.Rows {
			for _, line := range splitLines(c[0]) {
				if strings.Contains(line, "Image") {
					f.println(line)
				}
				if strings.Contains(line, "Port") {
					f.println(line)
					f.println()
				}
			}
		}

		report.Rule(f.Out, "-", 100)
	}

	return nil
}

// webHost takes the 4th word of the FQDN plugin output,
// "<ip> resolves as <fqdn>.", and drops its last character
func webHost(output string) (string, bool) {
	words := strings.Fields(output)
	if len(words) < 4 {
		return "", false
	}

	token := words[3]
	_, size := utf8.DecodeLastRuneInString(token)

	return token[:len(token)-size], true
}

// webURL builds the URL for a service detection output mentioning "web";
// services reached "through" TLS get https
func webURL(output, host, port string) (string, bool) {
	if !strings.Contains(output, "web") {
		return "", false
	}

	scheme := "http"
	if strings.Contains(output, "through") {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s:%s", scheme, host, port), true
}

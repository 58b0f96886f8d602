package find

import (
	"context"
	"errors"
	"fmt"

	"github.com/kvesta/navi/config"
	"github.com/kvesta/navi/internal/report"
	"github.com/kvesta/navi/pkg/workbench"
)

// cloudProviders are searched in this order. An empty noFQDN means a
// missing FQDN fails the whole command instead of printing a placeholder.
var cloudProviders = []struct {
	name   string
	noFQDN string
}{
	{name: "AWS"},
	{name: "GCP", noFQDN: "NO FQDN FOUND"},
	{name: "AZURE", noFQDN: "NO FQDN Found"},
}

// Ghost lists assets known only to a single cloud connector and never seen by a scan
func (f *Finder) Ghost(ctx context.Context) error {
	if err := f.ghost(ctx); err != nil {
		f.println(config.Red("Check your API keys or your internet connection"))
		f.println(err)
	}

	return nil
}

func (f *Finder) ghost(ctx context.Context) error {
	if f.Workbench == nil {
		return errors.New("workbench client is not configured")
	}

	report.GhostHeader(f.Out)

	for _, p := range cloudProviders {
		assets, err := f.Workbench.Assets(ctx, workbench.Filter{
			Field:    "sources",
			Operator: "set-hasonly",
			Value:    p.name,
		})
		if err != nil {
			return err
		}

		for _, a := range assets {
			for _, s := range a.Sources {
				if s.Name != p.name {
					continue
				}

				if len(a.IPv4) == 0 {
					return fmt.Errorf("asset %s has no ipv4 address", a.ID)
				}

				var fqdn string
				switch {
				case len(a.FQDN) > 0:
					fqdn = a.FQDN[0]
				case p.noFQDN != "":
					fqdn = p.noFQDN
				default:
					return fmt.Errorf("asset %s has no fqdn", a.ID)
				}

				report.GhostRow(f.Out, s.Name, a.IPv4[0], fqdn, s.FirstSeen)
			}
		}

		f.println()
	}

	return nil
}

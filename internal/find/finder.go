// Package find implements the lookups behind `navi find`. Every command
// builds a statement against the local cache (or calls the workbench API),
// then prints the matching rows as fixed-width text.
//
// User input goes into the statement text unescaped.
package find

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/kvesta/navi/config"
	"github.com/kvesta/navi/pkg/vulndb"
	"github.com/kvesta/navi/pkg/workbench"
)

const (
	PluginDocker      = "93561"
	PluginCredentials = "104410"
	PluginScanInfo    = "19506"
	PluginHostFQDN    = "12053"
	PluginServices    = "22964"
)

// OpenPortPlugins report a port as open
var OpenPortPlugins = []string{"11219", "14272", "14274", "34220", "10335"}

type Querier interface {
	Query(ctx context.Context, statement string) (*vulndb.Result, error)
}

type AssetSearcher interface {
	Assets(ctx context.Context, filters ...workbench.Filter) ([]workbench.Asset, error)
}

type Finder struct {
	Store     Querier
	Workbench AssetSearcher

	Out io.Writer
}

func New(store Querier, wb AssetSearcher) *Finder {
	return &Finder{
		Store:     store,
		Workbench: wb,
		Out:       os.Stdout,
	}
}

func (f *Finder) println(a ...interface{}) {
	fmt.Fprintln(f.Out, a...)
}

func (f *Finder) printf(format string, a ...interface{}) {
	fmt.Fprintf(f.Out, format, a...)
}

func (f *Finder) warn(msg string) {
	f.println(config.Yellow(msg))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, c := range s {
		if !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}

// splitLines splits on \n, \r\n and \r
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
}

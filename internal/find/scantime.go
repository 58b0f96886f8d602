package find

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kvesta/navi/config"
	"github.com/kvesta/navi/internal/report"

	log "github.com/sirupsen/logrus"
)

// positions in `SELECT * from vulns`
const (
	colAssetIP       = 1
	colAssetUUID     = 2
	colOutput        = 6
	colScanCompleted = 13
	colScanStarted   = 14
	colScanUUID      = 15
)

var errNoDuration = errors.New("no scan duration in output")

// ScanTime lists assets whose last scan took longer than minute minutes
func (f *Finder) ScanTime(ctx context.Context, minute string) error {
	f.println(config.Green(fmt.Sprintf("\n*** Below are the assets that took longer than %s minutes to scan ***", minute)))

	res, err := f.Store.Query(ctx, fmt.Sprintf("SELECT * from vulns where plugin_id='%s';", PluginScanInfo))
	if err != nil {
		return err
	}

	report.ScanTimeHeader(f.Out)

	threshold, err := strconv.Atoi(strings.TrimSpace(minute))
	if err != nil {
		log.Debugf("invalid minutes %q: %v", minute, err)
		return nil
	}

	for _, r := range res.Rows {
		output, ok := r.Get(colOutput)
		if !ok {
			continue
		}

		seconds, err := scanDuration(output)
		if err != nil {
			log.Debugf("skip scan info of %s: %v", r[colAssetUUID], err)
			continue
		}

		if float64(seconds)/60 <= float64(threshold) {
			continue
		}

		if len(r) <= colScanUUID {
			continue
		}

		report.ScanTimeRow(f.Out, r[colAssetIP], r[colAssetUUID],
			r[colScanStarted], r[colScanCompleted], r[colScanUUID])
	}

	f.println()

	return nil
}

// scanDuration reads "Scan duration : 360 sec", the second to last line
// of the scan information plugin output
func scanDuration(output string) (int, error) {
	lines := strings.Split(output, "\n")
	if len(lines) < 2 {
		return 0, errNoDuration
	}

	parts := strings.Split(lines[len(lines)-2], " : ")
	if len(parts) < 2 {
		return 0, errNoDuration
	}

	number := strings.Split(parts[1], " ")[0]

	return strconv.Atoi(strings.TrimSpace(number))
}

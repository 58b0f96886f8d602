package find

import (
	"context"

	"github.com/kvesta/navi/internal/report"
)

// Query runs statement against the cache unchanged and dumps the result,
// to outfile when one is given
func (f *Finder) Query(ctx context.Context, statement, format, outfile string) error {
	res, err := f.Store.Query(ctx, statement)
	if err != nil {
		return err
	}

	if outfile != "" {
		return report.SaveDump(outfile, res, format)
	}

	return report.Dump(f.Out, res, format)
}

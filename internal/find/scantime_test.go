package find

import (
	"context"
	"testing"

	"github.com/kvesta/navi/pkg/vulndb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanDuration(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    int
		wantErr bool
	}{
		{name: "six minutes", output: scanInfo("360"), want: 360},
		{name: "four minutes", output: scanInfo("240"), want: 240},
		{name: "windows line endings", output: "Scan Start Date : x\r\nScan duration : 90 sec\r\n", want: 90},
		{name: "no number", output: scanInfo("unknown"), wantErr: true},
		{name: "single line", output: "Scan duration : 360 sec", wantErr: true},
		{name: "no separator", output: "header\nScan duration 360 sec\n", wantErr: true},
		{name: "empty", output: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scanDuration(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanTime(t *testing.T) {
	tests := []struct {
		name   string
		minute string
		want   [][]string
	}{
		{
			name:   "over five minutes",
			minute: "5",
			want:   [][]string{{"10.0.0.1", "a-1", "start-1", "finish-1", "scan-1"}},
		},
		{
			name:   "six minutes is not over six",
			minute: "6",
		},
		{
			name:   "over three minutes",
			minute: "3",
			want: [][]string{
				{"10.0.0.1", "a-1", "start-1", "finish-1", "scan-1"},
				{"10.0.0.2", "a-2", "start-2", "finish-2", "scan-2"},
			},
		},
		{
			name:   "threshold not a number",
			minute: "five",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, out := newTestFinder(seed(t), nil)

			require.NoError(t, f.ScanTime(context.Background(), tt.minute))
			assert.Contains(t, out.String(), "*** Below are the assets that took longer than "+tt.minute+" minutes to scan ***")
			assert.Equal(t, tt.want, tableRows(out.String()))
		})
	}
}

func TestScanTimeShortRow(t *testing.T) {
	store := &fakeStore{results: []stubResult{{
		match: "plugin_id='19506'",
		res: &vulndb.Result{Rows: []vulndb.Row{
			{"1", "10.0.0.1", "a-1", "", "", "", scanInfo("600")},
		}},
	}}}
	f, out := newTestFinder(store, nil)

	require.NoError(t, f.ScanTime(context.Background(), "1"))
	assert.Nil(t, tableRows(out.String()))
}

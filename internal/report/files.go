package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kvesta/navi/config"
	"github.com/kvesta/navi/pkg/vulndb"

	log "github.com/sirupsen/logrus"
)

// SaveDump writes the result set to filename in the given format,
// creating the parent folder when missing
func SaveDump(filename string, res *vulndb.Result, format string) error {
	var buf bytes.Buffer

	if err := Dump(&buf, res, format); err != nil {
		return err
	}

	folder := filepath.Dir(filename)
	if err := os.MkdirAll(folder, os.FileMode(0755)); err != nil {
		return fmt.Errorf("create folder %s: %w", folder, err)
	}

	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return err
	}

	log.Infof("Output file is saved in: %s", config.Yellow(filename))

	return nil
}

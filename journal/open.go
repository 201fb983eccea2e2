package journal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/rustyeddy/tradestats/trade"
)

// OpenTradeLog loads a trade log from path, choosing the decoder by
// extension: .json or .csv, optionally xz compressed (.json.xz).
func OpenTradeLog(path, mode string) ([]trade.Record, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	return ReadTradeLog(fh, filepath.Base(path), mode)
}

// ReadTradeLog is OpenTradeLog over an already open reader; name supplies
// the extension.
func ReadTradeLog(r io.Reader, name, mode string) ([]trade.Record, error) {
	name = strings.ToLower(name)
	if strings.HasSuffix(name, ".xz") {
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("xz: %w", err)
		}
		r = xr
		name = strings.TrimSuffix(name, ".xz")
	}

	switch filepath.Ext(name) {
	case ".json":
		return LoadJSON(r, mode)
	case ".csv":
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("unsupported trade log %q: want .json or .csv", name)
	}
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// output returns the command's stdout, or path when set. The returned
// func closes the file and reports any write the close flushed out.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, func() error {
		if err := f.Close(); err != nil {
			return fmt.Errorf("close output: %w", err)
		}
		return nil
	}, nil
}

// closeWith runs closeOut and keeps the first error in *err.
func closeWith(closeOut func() error, err *error) {
	if cerr := closeOut(); cerr != nil && *err == nil {
		*err = cerr
	}
}

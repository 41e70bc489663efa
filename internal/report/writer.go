package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Writer persists rendered documents. Writes go through a temp file in
// the target directory followed by a rename, so a failed render or a
// full disk never leaves a truncated report behind.
type Writer struct {
	OutputDir string
}

// Write stores document bytes as <OutputDir>/<base><format ext> and
// returns the final path. An existing file of the same name is
// replaced. PDF output is validated before the rename.
func (w *Writer) Write(base string, format Format, data []byte) (string, error) {
	if err := os.MkdirAll(w.OutputDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if format == FormatPDF {
		if err := validatePDF(data); err != nil {
			return "", fmt.Errorf("generated PDF failed validation: %w", err)
		}
	}

	final := filepath.Join(w.OutputDir, base+format.Ext())

	tmp, err := os.CreateTemp(w.OutputDir, ".tmp-"+base+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp output file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write %s: %w", final, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close temp output file: %w", err)
	}

	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to move report into place: %w", err)
	}
	return final, nil
}

// validatePDF runs the document through pdfcpu's relaxed validator.
func validatePDF(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return err
	}
	if ctx.PageCount < 1 {
		return fmt.Errorf("document has no pages")
	}
	return nil
}

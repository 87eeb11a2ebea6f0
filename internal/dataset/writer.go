package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
)

// Write serializes p in the dataset format understood by Parse.
func Write(w io.Writer, p *model.Problem) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Bin size: %d %d %d\n", p.BinSize.X, p.BinSize.Y, p.BinSize.Z)
	fmt.Fprintf(&b, "Number of bins: %d\n", p.BinCount)
	fmt.Fprintf(&b, "Number of items per bin: %d\n", len(p.Items))
	fmt.Fprintf(&b, "Total volume of items: %d\n", p.TotalVolume)
	b.WriteString("Items:\n")
	for _, item := range p.Items {
		fmt.Fprintf(&b, "%d %d %d\n", item.X, item.Y, item.Z)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFile writes p to path, creating parent directories as needed.
func WriteFile(path string, p *model.Problem) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var b strings.Builder
	if err := Write(&b, p); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
)

// Parse reads a problem instance in the dataset format:
//
//	Bin size: 100 100 100
//	Number of bins: 10
//	Number of items per bin: 20
//	Total volume of items: 54321
//	Items:
//	12 34 56
//	...
//
// Blank lines are ignored. The item count and total volume listed in the
// header must match the item lines, so a truncated or hand-edited file is
// rejected.
func Parse(name string, r io.Reader) (*model.Problem, error) {
	sc := bufio.NewScanner(r)

	binSize, err := parseExtent(nextLine(sc), "Bin size:")
	if err != nil {
		return nil, err
	}
	binCount, err := parseCount(nextLine(sc), "Number of bins:")
	if err != nil {
		return nil, err
	}
	perBin, err := parseCount(nextLine(sc), "Number of items per bin:")
	if err != nil {
		return nil, err
	}
	totalVolume, err := parseCount(nextLine(sc), "Total volume of items:")
	if err != nil {
		return nil, err
	}
	if line := nextLine(sc); line != "Items:" {
		return nil, fmt.Errorf("expected %q header, got %q", "Items:", line)
	}

	items := make([]model.Extent, 0, perBin)
	for {
		line := nextLine(sc)
		if line == "" {
			break
		}
		item, err := parseExtent(line, "")
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", len(items)+1, err)
		}
		items = append(items, item)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(items) != perBin {
		return nil, fmt.Errorf("header promises %d items per bin, file lists %d", perBin, len(items))
	}

	p, err := model.NewProblem(name, binSize, items, binCount)
	if err != nil {
		return nil, err
	}
	if p.TotalVolume != totalVolume {
		return nil, fmt.Errorf("header promises total volume %d, items sum to %d", totalVolume, p.TotalVolume)
	}
	return p, nil
}

// ParseFile reads a problem instance from path, naming it after the file.
func ParseFile(path string) (*model.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p, err := Parse(name, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// nextLine returns the next non-blank line, trimmed, or "" at end of input.
func nextLine(sc *bufio.Scanner) string {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			return line
		}
	}
	return ""
}

// parseExtent parses three integers after an optional header prefix.
func parseExtent(line, prefix string) (model.Extent, error) {
	fields, err := parseFields(line, prefix, 3)
	if err != nil {
		return model.Extent{}, err
	}
	return model.Extent{X: fields[0], Y: fields[1], Z: fields[2]}, nil
}

// parseCount parses a single integer after a header prefix.
func parseCount(line, prefix string) (int, error) {
	fields, err := parseFields(line, prefix, 1)
	if err != nil {
		return 0, err
	}
	return fields[0], nil
}

func parseFields(line, prefix string, n int) ([]int, error) {
	if prefix != "" {
		rest, ok := strings.CutPrefix(line, prefix)
		if !ok {
			return nil, fmt.Errorf("expected %q header, got %q", prefix, line)
		}
		line = rest
	}

	fields := strings.Fields(line)
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d integers, got %q", n, line)
	}
	values := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad integer %q in %q", f, line)
		}
		values[i] = v
	}
	return values, nil
}

package spectrum

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

const energyPrefix = "energy_"

// LoadCSV reads a spectrum from a CSV file. The header row is required and
// must describe one of two shapes:
//
//   - {counts}: a single counts column; the axis is the implicit channel
//     sequence and the unit label is "channels".
//   - {counts, energy_<UNITS>}: two columns in either order; the non-counts
//     column supplies the energy axis and its suffix the unit label.
func LoadCSV(path string) (*Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open spectrum file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses CSV spectrum data from r. See LoadCSV for the accepted
// column shapes.
func ReadCSV(r io.Reader) (*Spectrum, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv spectrum: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("csv spectrum: read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	countsCol, energyCol, units, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var counts, energies []float64
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv spectrum: row %d: %w", row, err)
		}
		row++
		c, err := strconv.ParseFloat(strings.TrimSpace(rec[countsCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("csv spectrum: row %d: bad counts value %q", row, rec[countsCol])
		}
		counts = append(counts, c)
		if energyCol >= 0 {
			e, err := strconv.ParseFloat(strings.TrimSpace(rec[energyCol]), 64)
			if err != nil {
				return nil, fmt.Errorf("csv spectrum: row %d: bad energy value %q", row, rec[energyCol])
			}
			energies = append(energies, e)
		}
	}

	if energyCol >= 0 {
		log.Printf("spectrum: energy-calibrated input detected (%s)", units)
	} else {
		log.Printf("spectrum: uncalibrated input detected, using channel numbers")
	}
	return New(counts, energies, units)
}

// resolveColumns maps the header to (counts index, energy index, units).
// energy index is -1 for counts-only files.
func resolveColumns(header []string) (int, int, string, error) {
	switch len(header) {
	case 1:
		if !strings.EqualFold(header[0], "counts") {
			return 0, 0, "", fmt.Errorf("csv spectrum: single column must be named %q, got %q", "counts", header[0])
		}
		return 0, -1, "channels", nil
	case 2:
		countsCol := -1
		for i, name := range header {
			if strings.EqualFold(name, "counts") {
				countsCol = i
			}
		}
		if countsCol < 0 {
			return 0, 0, "", fmt.Errorf("csv spectrum: no %q column in header %v", "counts", header)
		}
		energyCol := 1 - countsCol
		name := header[energyCol]
		if !strings.Contains(strings.ToLower(name), "energy") {
			return 0, 0, "", fmt.Errorf("csv spectrum: second column %q is not an energy axis", name)
		}
		units := "energy"
		if strings.HasPrefix(strings.ToLower(name), energyPrefix) && len(name) > len(energyPrefix) {
			units = name[len(energyPrefix):]
		}
		return countsCol, energyCol, units, nil
	default:
		return 0, 0, "", fmt.Errorf("csv spectrum: expected 1 or 2 columns, got %d (%v)", len(header), header)
	}
}

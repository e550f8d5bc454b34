package spectrum

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// speLexer tokenizes the IAEA SPE ASCII format: $NAME: section headers
// followed by whitespace-separated values until the next header.
var speLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Section", Pattern: `\$[A-Z0-9_]+:`},
	{Name: "Number", Pattern: `[-+]?\d+(\.\d+)?([eE][-+]?\d+)?`},
	{Name: "Word", Pattern: `[^\s]+`},
	{Name: "Whitespace", Pattern: `[\s\r\n]+`},
})

type speFile struct {
	Sections []*speSection `parser:"@@*"`
}

type speSection struct {
	Name   string   `parser:"@Section"`
	Tokens []string `parser:"( @Number | @Word )*"`
}

// SPEParser parses IAEA SPE ASCII spectrum files.
type SPEParser struct {
	parser *participle.Parser[speFile]
}

// NewSPEParser builds the section grammar.
func NewSPEParser() (*SPEParser, error) {
	parser, err := participle.Build[speFile](
		participle.Lexer(speLexer),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build SPE parser: %w", err)
	}
	return &SPEParser{parser: parser}, nil
}

// Parse reads an SPE spectrum from a reader.
func (p *SPEParser) Parse(r io.Reader) (*Spectrum, error) {
	file, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("spe spectrum: parse error: %w", err)
	}
	return p.build(file)
}

// ParseString reads an SPE spectrum from a string.
func (p *SPEParser) ParseString(input string) (*Spectrum, error) {
	file, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("spe spectrum: parse error: %w", err)
	}
	return p.build(file)
}

// LoadSPE reads an SPE spectrum from a file path.
func LoadSPE(path string) (*Spectrum, error) {
	p, err := NewSPEParser()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open spectrum file: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Load dispatches on the file extension: .spe files go through the SPE
// parser, everything else is treated as CSV.
func Load(path string) (*Spectrum, error) {
	if strings.EqualFold(strings.TrimPrefix(strings.ToLower(pathExt(path)), "."), "spe") {
		return LoadSPE(path)
	}
	return LoadCSV(path)
}

func pathExt(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/' && path[i] != '\\'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func (p *SPEParser) build(file *speFile) (*Spectrum, error) {
	var data *speSection
	var calib []float64
	for _, sec := range file.Sections {
		switch sec.Name {
		case "$DATA:":
			data = sec
		case "$ENER_FIT:":
			vals, err := sec.floats()
			if err != nil {
				return nil, fmt.Errorf("spe spectrum: $ENER_FIT: %w", err)
			}
			if len(vals) >= 2 {
				calib = vals[:2]
			}
		case "$MCA_CAL:":
			vals, err := sec.floats()
			if err != nil {
				return nil, fmt.Errorf("spe spectrum: $MCA_CAL: %w", err)
			}
			// First value is the coefficient count, possibly followed by
			// a unit word that floats() already skipped.
			if len(vals) >= 2 {
				n := int(vals[0])
				if n > len(vals)-1 {
					n = len(vals) - 1
				}
				calib = vals[1 : 1+n]
			}
		}
	}
	if data == nil {
		return nil, fmt.Errorf("spe spectrum: missing %s section", "$DATA:")
	}

	vals, err := data.floats()
	if err != nil {
		return nil, fmt.Errorf("spe spectrum: $DATA: %w", err)
	}
	if len(vals) < 3 {
		return nil, fmt.Errorf("spe spectrum: $DATA needs a channel range and counts, got %d values", len(vals))
	}
	first, last := int(vals[0]), int(vals[1])
	counts := vals[2:]
	if want := last - first + 1; want > 0 && len(counts) != want {
		return nil, fmt.Errorf("spe spectrum: $DATA declares %d channels but carries %d counts", want, len(counts))
	}

	var energies []float64
	units := "channels"
	if len(calib) >= 2 {
		energies = make([]float64, len(counts))
		for ch := range energies {
			x := float64(first + ch)
			e := 0.0
			for i := len(calib) - 1; i >= 0; i-- {
				e = e*x + calib[i]
			}
			energies[ch] = e
		}
		units = "keV"
		log.Printf("spectrum: energy-calibrated input detected (%s)", units)
	} else {
		log.Printf("spectrum: uncalibrated input detected, using channel numbers")
	}
	return New(counts, energies, units)
}

// floats converts the numeric tokens of a section body, skipping words
// such as calibration unit suffixes.
func (s *speSection) floats() ([]float64, error) {
	out := make([]float64, 0, len(s.Tokens))
	for _, tok := range s.Tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no numeric values")
	}
	return out, nil
}

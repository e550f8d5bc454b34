package cmd

import (
	"fmt"
	"log"
	"os"

	gioapp "gioui.org/app"
	"github.com/spf13/cobra"

	"github.com/OpenGammaLab/gammaview/internal/ui"
	"github.com/OpenGammaLab/gammaview/pkg/calibration"
	"github.com/OpenGammaLab/gammaview/pkg/peaksearch"
	"github.com/OpenGammaLab/gammaview/pkg/spectrum"
)

var (
	// Calibration flags
	flagFWHMAt0 float64
	flagMinSNR  float64
	flagRefX    float64
	flagRefFWHM float64

	// Detector presets
	flagCeBr bool
	flagLaBr bool
	flagHPGe bool
)

var rootCmd = &cobra.Command{
	Use:   "gammaview <file>",
	Short: "Interactive gamma-ray spectroscopy viewer",
	Long: `GammaView loads a spectrum (counts vs. energy or channel), runs an
automated peak search, and opens an interactive view: drag-select a region
to fit Gaussian peaks over a polynomial or exponential background.

Examples:
  gammaview run.csv --cebr                          # CeBr3 detector preset
  gammaview run.csv --min_snr=3 --hpge              # HPGe preset, stricter search
  gammaview run.csv --fwhm_at_0=1 --ref_x=1317 --ref_fwhm=41
  gammaview info run.spe --labr                     # headless peak listing`,
	Version: "0.9.0",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, params, search, err := prepare(args[0])
		if err != nil {
			return err
		}

		sess := ui.NewSession(spec, search, params, args[0])
		go func() {
			if err := ui.New(sess).Run(); err != nil {
				log.Fatal(err)
			}
			os.Exit(0)
		}()
		gioapp.Main()
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&flagFWHMAt0, "fwhm_at_0", 0, "FWHM extrapolated to channel 0")
	pf.Float64Var(&flagMinSNR, "min_snr", 0, "minimum SNR accepted as a peak (default 1.0)")
	pf.Float64Var(&flagRefX, "ref_x", 0, "reference channel for ref_fwhm")
	pf.Float64Var(&flagRefFWHM, "ref_fwhm", 0, "FWHM at the reference channel")
	pf.BoolVar(&flagCeBr, "cebr", false, "use the CeBr3 detector preset")
	pf.BoolVar(&flagLaBr, "labr", false, "use the LaBr3 detector preset")
	pf.BoolVar(&flagHPGe, "hpge", false, "use the HPGe detector preset")
	rootCmd.MarkFlagsMutuallyExclusive("cebr", "labr", "hpge")
}

// detectorFromFlags maps the preset switches onto a detector name.
func detectorFromFlags() calibration.Detector {
	switch {
	case flagCeBr:
		return calibration.DetectorCeBr
	case flagLaBr:
		return calibration.DetectorLaBr
	case flagHPGe:
		return calibration.DetectorHPGe
	}
	return calibration.DetectorNone
}

// prepare loads the spectrum, resolves the calibration, and runs the peak
// search. All failures happen here, before any window opens.
func prepare(path string) (*spectrum.Spectrum, calibration.Params, *peaksearch.Result, error) {
	params, err := calibration.Resolve(calibration.Options{
		Detector: detectorFromFlags(),
		FWHMAt0:  flagFWHMAt0,
		RefX:     flagRefX,
		RefFWHM:  flagRefFWHM,
		MinSNR:   flagMinSNR,
	})
	if err != nil {
		return nil, calibration.Params{}, nil, err
	}

	spec, err := spectrum.Load(path)
	if err != nil {
		return nil, calibration.Params{}, nil, err
	}

	search, err := peaksearch.Search(spec, params)
	if err != nil {
		return nil, calibration.Params{}, nil, err
	}

	log.Printf("loaded %s: %d channels (%s)", path, spec.Len(), spec.XUnits)
	log.Printf("peak search: fwhm_at_0=%g ref_x=%g ref_fwhm=%g min_snr=%g -> %d peak(s)",
		params.FWHMAt0, params.RefX, params.RefFWHM, params.MinSNR, len(search.Peaks))
	return spec, params, search, nil
}

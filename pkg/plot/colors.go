package plot

import "image/color"

// Panel palette. Dark background with high-contrast series colors, in the
// spirit of the usual spectroscopy plotting themes.
var (
	ColorBackground = color.NRGBA{R: 24, G: 26, B: 33, A: 255}
	ColorPanel      = color.NRGBA{R: 32, G: 35, B: 44, A: 255}
	ColorFrame      = color.NRGBA{R: 120, G: 126, B: 140, A: 255}
	ColorGrid       = color.NRGBA{R: 52, G: 56, B: 68, A: 255}
	ColorText       = color.NRGBA{R: 214, G: 219, B: 230, A: 255}

	ColorSpectrum  = color.NRGBA{R: 102, G: 170, B: 255, A: 255}  // raw counts
	ColorSNR       = color.NRGBA{R: 255, G: 184, B: 76, A: 255}   // search SNR overlay
	ColorPeakMark  = color.NRGBA{R: 235, G: 80, B: 80, A: 110}    // detected peak lines
	ColorSelection = color.NRGBA{R: 102, G: 170, B: 255, A: 46}   // drag rubber band
	ColorFit       = color.NRGBA{R: 86, G: 205, B: 120, A: 255}   // fitted model
	ColorFitData   = color.NRGBA{R: 160, G: 166, B: 180, A: 255}  // observed counts in the fit panel
	ColorResidual  = color.NRGBA{R: 206, G: 120, B: 230, A: 255}  // residual series
	ColorZeroLine  = color.NRGBA{R: 120, G: 126, B: 140, A: 160}  // residual zero marker
)

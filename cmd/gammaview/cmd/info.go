package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print spectrum details and found peaks without opening a window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, params, search, err := prepare(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("File:      %s\n", args[0])
		fmt.Printf("Channels:  %d\n", spec.Len())
		fmt.Printf("X axis:    %s", spec.XUnits)
		if spec.Calibrated() {
			fmt.Printf(" [%g .. %g]", spec.X()[0], spec.X()[spec.Len()-1])
		}
		fmt.Println()
		fmt.Printf("min_snr:   %g\n", params.MinSNR)
		fmt.Printf("Peaks:     %d\n\n", len(search.Peaks))

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintf(w, "#\tchannel\tx\tcounts\tsnr\tfwhm guess\n")
		for i, ch := range search.Peaks {
			fmt.Fprintf(w, "%d\t%d\t%.2f\t%.0f\t%.2f\t%.2f\n",
				i+1, ch, spec.XAt(ch), spec.Counts[ch], search.SNR[ch], search.FWHMGuess[i])
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

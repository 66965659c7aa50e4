package main

import (
	"fmt"

	"github.com/spf13/cobra"

	thresh "github.com/jamesainslie/go-thresh"
	"github.com/jamesainslie/go-thresh/internal/report"
)

type sanityCase struct {
	title string
	truth []int
	pred  []int
}

// sanityCases are the reference points of MCC: +1, -1 and 0.
func sanityCases() []sanityCase {
	imbalanced := make([]int, 1000)
	for i := 990; i < len(imbalanced); i++ {
		imbalanced[i] = 1
	}

	return []sanityCase{
		{
			title: "SANITY 1: perfect (MCC≈1)",
			truth: []int{0, 0, 1, 1, 0, 1},
			pred:  []int{0, 0, 1, 1, 0, 1},
		},
		{
			title: "SANITY 2: inverse (MCC≈-1)",
			truth: []int{0, 0, 1, 1},
			pred:  []int{1, 1, 0, 0},
		},
		{
			title: "SANITY 3: imbalance always-0 (MCC≈0)",
			truth: imbalanced,
			pred:  make([]int, len(imbalanced)),
		},
	}
}

func newSanityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sanity",
		Short: "Print reports for three known MCC reference cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, c := range sanityCases() {
				r, err := thresh.Evaluate(c.truth, c.pred)
				if err != nil {
					return err
				}
				if i > 0 {
					if _, err := fmt.Fprintln(out); err != nil {
						return err
					}
				}
				if err := report.WriteStandard(out, r, c.title); err != nil {
					return err
				}
			}
			a.logger.Debug("sanity cases printed")
			return nil
		},
	}
}

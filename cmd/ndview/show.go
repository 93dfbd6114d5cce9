package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/born-ml/ndview/internal/tensor"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var (
		shape   []int
		ops     []string
		iterArg string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Apply view operations to an arange tensor and print the result",
		Example: `  ndview show --shape 3,3 --op slice:,::-1
  ndview show --shape 4,3 --op transpose --op copy:f --iter f
  ndview show --shape 10 --op slice:2:-2:2
  ndview show --shape 4,3 --op mask-lt:5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			order := tensor.DefaultOrder()
			if iterArg != "" {
				var err error
				if order, err = tensor.ParseOrder(iterArg); err != nil {
					return err
				}
			}
			pipeline := make([]op, len(ops))
			for i, s := range ops {
				o, err := parseOp(s)
				if err != nil {
					return err
				}
				pipeline[i] = o
			}
			return runShow(cmd.OutOrStdout(), tensor.Shape(shape), pipeline, order)
		},
	}

	cmd.Flags().IntSliceVar(&shape, "shape", []int{3, 3}, "Shape of the source tensor")
	cmd.Flags().StringArrayVar(&ops, "op", nil, "View operation to apply (repeatable)")
	cmd.Flags().StringVar(&iterArg, "iter", "", "Order used to list the result (c|f, default: configured order)")

	return cmd
}

func runShow(w io.Writer, shape tensor.Shape, pipeline []op, order tensor.Order) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	t := tensor.Arange[int64](shape)
	if err := describe(w, "source", t); err != nil {
		return err
	}
	for _, o := range pipeline {
		next, err := o.apply(t)
		if err != nil {
			return fmt.Errorf("%s: %w", o.text, err)
		}
		slog.Debug("view applied", "op", o.text, "shape", next.Shape())
		t = next
		if err := describe(w, o.text, t); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "values(%s): %v\n", order, t.ToSlice(order)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, t.Pretty())
	return err
}

func describe(w io.Writer, label string, t *tensor.Tensor[int64]) error {
	_, err := fmt.Fprintf(w, "%-16s shape=%v order=%s trivial(C)=%t trivial(F)=%t caps=%s\n",
		label, t.Shape(), t.Order(),
		t.IsTrivial(tensor.RowMajor), t.IsTrivial(tensor.ColMajor), t.Capabilities())
	return err
}

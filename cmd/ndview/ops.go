package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/ndview/internal/tensor"
)

// op is one step of a show pipeline.
type op struct {
	text  string
	apply func(*tensor.Tensor[int64]) (*tensor.Tensor[int64], error)
}

// parseOp parses "name[:args]". Supported forms:
//
//	transpose[:a,b,...]     permute axes, reverse when empty
//	slice:s0,s1,...         each s is i or start:stop[:step] with blanks allowed
//	subdim:i,j,...          fix leading axes
//	reshape[-c|-f]:d0,d1    one extent may be -1
//	copy[:c|f]              materialise in an order
//	mask-lt:n               keep elements below n
//	take:i,j,...            gather along the first axis
func parseOp(s string) (op, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(s), ":")
	o := op{text: s}
	switch name {
	case "transpose":
		axes, err := parseInts(arg)
		if err != nil {
			return op{}, fmt.Errorf("op %q: %w", s, err)
		}
		o.apply = func(t *tensor.Tensor[int64]) (*tensor.Tensor[int64], error) { return t.Transpose(axes...) }
	case "slice":
		subs, err := parseSubscripts(arg)
		if err != nil {
			return op{}, fmt.Errorf("op %q: %w", s, err)
		}
		o.apply = func(t *tensor.Tensor[int64]) (*tensor.Tensor[int64], error) { return t.Index(subs...) }
	case "subdim":
		idx, err := parseInts(arg)
		if err != nil {
			return op{}, fmt.Errorf("op %q: %w", s, err)
		}
		o.apply = func(t *tensor.Tensor[int64]) (*tensor.Tensor[int64], error) { return t.Subdim(idx...) }
	case "reshape", "reshape-c", "reshape-f":
		dims, err := parseInts(arg)
		if err != nil {
			return op{}, fmt.Errorf("op %q: %w", s, err)
		}
		order := tensor.DefaultOrder()
		if name != "reshape" {
			order, _ = tensor.ParseOrder(strings.TrimPrefix(name, "reshape-"))
		}
		o.apply = func(t *tensor.Tensor[int64]) (*tensor.Tensor[int64], error) {
			return t.ReshapeOrder(order, dims...)
		}
	case "copy":
		order := tensor.DefaultOrder()
		if arg != "" {
			var err error
			if order, err = tensor.ParseOrder(arg); err != nil {
				return op{}, fmt.Errorf("op %q: %w", s, err)
			}
		}
		o.apply = func(t *tensor.Tensor[int64]) (*tensor.Tensor[int64], error) { return t.Copy(order), nil }
	case "mask-lt":
		n, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil {
			return op{}, fmt.Errorf("op %q: %w", s, err)
		}
		o.apply = func(t *tensor.Tensor[int64]) (*tensor.Tensor[int64], error) {
			return tensor.Mask(t, tensor.Map(t, func(v int64) bool { return v < n }))
		}
	case "take":
		vals, err := parseInts(arg)
		if err != nil || len(vals) == 0 {
			return op{}, fmt.Errorf("op %q: take needs at least one index", s)
		}
		idx := make([]int64, len(vals))
		for i, v := range vals {
			idx[i] = int64(v)
		}
		o.apply = func(t *tensor.Tensor[int64]) (*tensor.Tensor[int64], error) {
			it, err := tensor.FromSlice(idx, tensor.Shape{len(idx)})
			if err != nil {
				return nil, err
			}
			return tensor.Gather(t, it)
		}
	default:
		return op{}, fmt.Errorf("unknown op %q", name)
	}
	return o, nil
}

func parseInts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad integer %q", p)
		}
		out[i] = v
	}
	return out, nil
}

func parseSubscripts(s string) ([]tensor.Subscript, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	subs := make([]tensor.Subscript, len(parts))
	for i, p := range parts {
		sub, err := parseSubscript(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		subs[i] = sub
	}
	return subs, nil
}

// parseSubscript parses i, start:stop or start:stop:step.
func parseSubscript(s string) (tensor.Subscript, error) {
	fields := strings.Split(s, ":")
	if len(fields) > 3 {
		return tensor.Subscript{}, fmt.Errorf("bad subscript %q", s)
	}
	vals := make([]*int, len(fields))
	for i, f := range fields {
		if f == "" {
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return tensor.Subscript{}, fmt.Errorf("bad subscript %q", s)
		}
		vals[i] = &v
	}
	if len(fields) == 1 {
		if vals[0] == nil {
			return tensor.All(), nil
		}
		return tensor.At(*vals[0]), nil
	}

	var sub tensor.Subscript
	switch start, stop := vals[0], vals[1]; {
	case start != nil && stop != nil:
		sub = tensor.Span(*start, *stop)
	case start != nil:
		sub = tensor.From(*start)
	case stop != nil:
		sub = tensor.Until(*stop)
	default:
		sub = tensor.All()
	}
	if len(fields) == 3 && vals[2] != nil {
		sub = sub.By(*vals[2])
	}
	return sub, nil
}

package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/born-ml/ndview/internal/config"
	"github.com/born-ml/ndview/internal/tensor"
	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show engine build and runtime settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeInfo(cmd.OutOrStdout(), activeCfg)
		},
	}
}

func writeInfo(w io.Writer, cfg config.Config) error {
	p := tensor.ParallelConfig()
	lines := []string{
		fmt.Sprintf("version:        %s", version),
		fmt.Sprintf("platform:       %s/%s", runtime.GOOS, runtime.GOARCH),
		fmt.Sprintf("cpu features:   %s", strings.Join(cpuFeatures(), " ")),
		fmt.Sprintf("default order:  %s", tensor.DefaultOrder()),
		fmt.Sprintf("division:       %s (resolved %s)", tensor.CurrentDivisionPolicy(), tensor.ResolvedDivisionPolicy()),
		fmt.Sprintf("parallel:       enabled=%t workers=%d min_chunk=%d", p.Enabled, p.NumWorkers, p.MinChunkSize),
		fmt.Sprintf("log level:      %s", cfg.LogLevel),
		fmt.Sprintf("config file:    %s", orNone(cfgFile)),
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// cpuFeatures lists the features the division policy cares about.
func cpuFeatures() []string {
	var out []string
	switch runtime.GOARCH {
	case "amd64", "386":
		for _, f := range []struct {
			name string
			ok   bool
		}{
			{"bmi2", cpu.X86.HasBMI2},
			{"avx2", cpu.X86.HasAVX2},
			{"avx512f", cpu.X86.HasAVX512F},
		} {
			if f.ok {
				out = append(out, f.name)
			}
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			out = append(out, "asimd")
		}
		if cpu.ARM64.HasSVE {
			out = append(out, "sve")
		}
	}
	if len(out) == 0 {
		return []string{"none"}
	}
	return out
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

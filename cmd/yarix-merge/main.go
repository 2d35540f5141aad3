// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command yarix-merge runs a K-way posting-list merge over a
// caller-assigned ABC range:
//
//	yarix-merge <offset> <limit> <out_dir> <in_dir_1> <size_1> <in_dir_2> <size_2> [...]
//
// SIGINT requests a graceful stop at the next ABC boundary; completed
// merged files are left intact.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mbrengel/yarix-go/internal/build"
	"github.com/mbrengel/yarix-go/internal/merge"
)

func main() {
	var groupSuffix string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "yarix-merge <offset> <limit> <out_dir> <in_dir_1> <size_1> <in_dir_2> <size_2> [...]",
		Short: "Merge independently-built indices into one, rebasing fids by shift",
		Args:  cobra.MinimumNArgs(7),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args)%2 != 1 {
				return fmt.Errorf("yarix-merge: argument count must be odd (offset, limit, out_dir, then dir/size pairs)")
			}
			offset, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("yarix-merge: invalid offset %q: %w", args[0], err)
			}
			limit, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("yarix-merge: invalid limit %q: %w", args[1], err)
			}
			outDir := args[2]

			rest := args[3:]
			if len(rest) < 4 || len(rest)%2 != 0 {
				return fmt.Errorf("yarix-merge: at least two <in_dir> <size> pairs are required")
			}
			var indices []merge.Index
			for i := 0; i < len(rest); i += 2 {
				size, err := strconv.ParseUint(rest[i+1], 10, 32)
				if err != nil {
					return fmt.Errorf("yarix-merge: invalid size %q for %q: %w", rest[i+1], rest[i], err)
				}
				indices = append(indices, merge.Index{Dir: rest[i], Size: uint32(size)})
			}

			cmd.SilenceUsage = true

			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log := zerolog.New(zerolog.NewConsoleWriter()).Level(level).With().Timestamp().Logger()

			outCfg := build.DefaultConfig()
			outCfg.Root = outDir
			if err := build.InitDirs(outCfg); err != nil {
				return fmt.Errorf("yarix-merge: initializing output directory: %w", err)
			}

			m, err := merge.New(merge.Config{Indices: indices, OutDir: outDir, Suffix: groupSuffix}, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return m.MergeRange(ctx, uint32(offset), uint32(limit))
		},
	}

	cmd.Flags().StringVar(&groupSuffix, "suffix", "", "grouping filename suffix shared by every input and the output (e.g. -g20)")
	cmd.Flags().BoolVarP(&verbose, "d", "d", false, "verbose logging")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command yarix-build runs the two-stage index build pipeline over a
// newline-delimited list of input paths: directory init, stage-1
// ingestion into prefiles, and stage-2 conversion into posting-list
// files. By default all three run; -i, -1, and -2 select individual
// phases.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mbrengel/yarix-go/internal/build"
	"github.com/mbrengel/yarix-go/internal/group"
)

func main() {
	var (
		inputList     string
		outDir        string
		maxFiles      int
		onlyInit      bool
		onlyStage1    bool
		onlyStage2    bool
		gzipInput     bool
		groupExponent int
		omitZeroBytes bool
		keepPrefiles  bool
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:   "yarix-build -r <file_list> -w <out_dir>",
		Short: "Build a 4-gram posting-list index over a corpus of files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputList == "" || outDir == "" {
				return fmt.Errorf("yarix-build: -r and -w are required")
			}

			cfg := build.DefaultConfig()
			cfg.Root = outDir
			cfg.Gzip = gzipInput
			cfg.OmitZeroBytes = omitZeroBytes
			cfg.KeepPrefiles = keepPrefiles
			if groupExponent != 0 {
				cfg.Group = group.Config{Enabled: true, Exponent: uint8(groupExponent)}
				if err := cfg.Group.Validate(); err != nil {
					return err
				}
			}

			cmd.SilenceUsage = true

			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log := zerolog.New(zerolog.NewConsoleWriter()).Level(level).With().Timestamp().Logger()

			all := !onlyInit && !onlyStage1 && !onlyStage2

			if onlyInit || all {
				log.Info().Str("root", outDir).Msg("initializing directory tree")
				if err := build.InitDirs(cfg); err != nil {
					return fmt.Errorf("yarix-build: init: %w", err)
				}
			}

			if onlyStage1 || all {
				filenames, err := readFileList(inputList, maxFiles)
				if err != nil {
					return fmt.Errorf("yarix-build: reading -r list: %w", err)
				}
				log.Info().Int("files", len(filenames)).Msg("starting stage 1 (ingest)")
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()
				ing := build.NewIngester(cfg, log)
				if err := ing.IngestAll(ctx, filenames); err != nil {
					return fmt.Errorf("yarix-build: stage 1: %w", err)
				}
			}

			if onlyStage2 || all {
				log.Info().Msg("starting stage 2 (convert)")
				conv := build.NewConverter(cfg, log)
				if err := conv.ConvertAll(); err != nil {
					return fmt.Errorf("yarix-build: stage 2: %w", err)
				}
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&inputList, "r", "r", "", "newline-delimited list of input file paths (required)")
	flags.StringVarP(&outDir, "w", "w", "", "output directory (required)")
	flags.IntVarP(&maxFiles, "n", "n", 0, "cap on number of files to index (0 = unlimited)")
	flags.BoolVarP(&onlyInit, "i", "i", false, "run only directory initialization")
	flags.BoolVarP(&onlyStage1, "1", "1", false, "run only stage 1 (ingest)")
	flags.BoolVarP(&onlyStage2, "2", "2", false, "run only stage 2 (convert)")
	flags.BoolVarP(&gzipInput, "z", "z", false, "inputs are gzip-compressed")
	flags.IntVarP(&groupExponent, "g", "g", 0, "enable grouping with this exponent (8-30)")
	flags.BoolVarP(&omitZeroBytes, "0", "0", false, "omit 4-grams containing any zero byte")
	flags.BoolVarP(&keepPrefiles, "k", "k", false, "keep prefiles after stage 2")
	flags.BoolVarP(&verbose, "d", "d", false, "verbose logging")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readFileList reads a newline-delimited list of input paths, stopping
// after max entries when max > 0 (the -n cap).
func readFileList(path string, max int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		out = append(out, line)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out, sc.Err()
}

// Copyright 2011 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command yarix-query reads hex-encoded 4-grams and a minimum-match
// threshold, queries a directory- or tar-packed index, and prints the
// matching fids one per line.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mbrengel/yarix-go/internal/match"
	"github.com/mbrengel/yarix-go/internal/ngram"
)

func main() {
	var base string
	var isTar bool
	var minMatches int
	var nFids uint32

	cmd := &cobra.Command{
		Use:   "yarix-query <ngram_hex> [ngram_hex...]",
		Short: "Query an index for fids matching at least -k of the given 4-grams",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ngrams, err := parseNGrams(args)
			if err != nil {
				return err
			}

			cmd.SilenceUsage = true

			var src match.Source
			if isTar {
				s, err := match.NewTarSource(base)
				if err != nil {
					return fmt.Errorf("yarix-query: opening tar index: %w", err)
				}
				defer s.Close()
				src = s
			} else {
				s := match.NewDirSource(base, "")
				defer s.Close()
				src = s
			}

			m := match.New(match.Config{NFids: nFids})
			result, err := m.Match(src, ngrams, minMatches)
			if err != nil {
				return fmt.Errorf("yarix-query: %w", err)
			}

			fids := make([]ngram.FID, 0, len(result))
			for fid := range result {
				fids = append(fids, fid)
			}
			sort.Slice(fids, func(i, j int) bool { return fids[i] < fids[j] })
			for _, fid := range fids {
				fmt.Println(fid)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "index root directory, or packed file path with -tar (required)")
	cmd.Flags().BoolVar(&isTar, "tar", false, "base names a tar-packed index with a .lookup sidecar")
	cmd.Flags().IntVarP(&minMatches, "k", "k", 1, "minimum number of n-grams a fid must match")
	cmd.Flags().Uint32Var(&nFids, "n-fids", 0, "counter array size (0 = match.DefaultConfig's default)")
	cmd.MarkFlagRequired("base")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// parseNGrams decodes each argument as either 8 hex digits or a dotted
// decimal byte quad (e.g. "65.66.67.68"), accepting whichever form is
// easiest to script against from a shell.
func parseNGrams(args []string) ([]ngram.NGram, error) {
	out := make([]ngram.NGram, 0, len(args))
	for _, a := range args {
		if strings.Contains(a, ".") {
			parts := strings.Split(a, ".")
			if len(parts) != 4 {
				return nil, fmt.Errorf("yarix-query: %q is not a dotted 4-byte n-gram", a)
			}
			var b [4]byte
			for i, p := range parts {
				v, err := strconv.ParseUint(p, 10, 8)
				if err != nil {
					return nil, fmt.Errorf("yarix-query: %q: %w", a, err)
				}
				b[i] = byte(v)
			}
			out = append(out, ngram.New(b[0], b[1], b[2], b[3]))
			continue
		}
		raw, err := hex.DecodeString(a)
		if err != nil || len(raw) != 4 {
			return nil, fmt.Errorf("yarix-query: %q is not an 8-hex-digit n-gram", a)
		}
		out = append(out, ngram.New(raw[0], raw[1], raw[2], raw[3]))
	}
	return out, nil
}

/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/wavespeed/graphviscosity"
	"github.com/notargets/wavespeed/riemann"
	"github.com/notargets/wavespeed/utils"
)

// BenchCmd represents the bench command
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Edge throughput of the scalar and the four lane kernels",
	Long: `
Times repeated evaluation of a random edge set on one thread with the scalar
kernel and with the four lane kernel. On Linux the retired CPU instructions
are counted as well.

wavespeed bench --edges 200000 --repeat 5 --cpuProfile ./prof`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			ip  = processInput(cmd)
			mb  = &ModelBench{}
		)
		mb.Nodes, _ = cmd.Flags().GetInt("nodes")
		mb.Repeat, _ = cmd.Flags().GetInt("repeat")
		mb.Dim, _ = cmd.Flags().GetInt("dim")
		mb.ProfileDir, _ = cmd.Flags().GetString("cpuProfile")
		if mb.Config, err = ip.Config(); err != nil {
			panic(err)
		}
		if len(mb.ProfileDir) != 0 {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(mb.ProfileDir)).Stop()
		}
		if err = RunBench(cmd.OutOrStdout(), mb); err != nil {
			panic(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(BenchCmd)
	BenchCmd.Flags().IntP("nodes", "k", 20000, "number of nodes, each with three edges")
	BenchCmd.Flags().IntP("repeat", "r", 3, "evaluations per kernel")
	BenchCmd.Flags().Int("dim", 3, "spatial dimension, 1 to 3")
	BenchCmd.Flags().String("cpuProfile", "", "directory for a CPU profile, none when empty")
}

type ModelBench struct {
	Nodes, Repeat, Dim int
	ProfileDir         string
	Config             riemann.Config
}

func RunBench(w io.Writer, mb *ModelBench) (err error) {
	var (
		rnd = rand.New(rand.NewSource(1))
		es  *graphviscosity.EdgeSet
	)
	if es, err = graphviscosity.RingGraph(mb.Nodes, 6, mb.Dim, rnd); err != nil {
		return
	}
	states := graphviscosity.RandomStates(mb.Nodes, mb.Dim, mb.Config.Gamma, rnd)
	for _, lanes := range []bool{false, true} {
		var (
			ev      *graphviscosity.Evaluator
			elapsed time.Duration
			instr   uint64
			perfErr error
			name    = "scalar"
		)
		if lanes {
			name = "lanes4"
		}
		if ev, err = graphviscosity.NewEvaluator(mb.Config, es,
			graphviscosity.WithLanes(lanes), graphviscosity.WithProcLimit(1)); err != nil {
			return
		}
		run := func() (err error) {
			start := time.Now()
			for n := 0; n < mb.Repeat; n++ {
				if _, err = ev.Evaluate(context.Background(), states); err != nil {
					return
				}
			}
			elapsed = time.Since(start)
			return
		}
		if instr, perfErr = countInstructions(run); perfErr != nil {
			log := utils.Logger()
			log.Debug().Err(perfErr).Msg("instruction counter unavailable")
			if err = run(); err != nil {
				return
			}
		}
		edges := float64(es.Len() * mb.Repeat)
		fmt.Fprintf(w, "%s:\t%10.4g edges/s", name, edges/elapsed.Seconds())
		if perfErr == nil {
			fmt.Fprintf(w, "\t%8.1f instructions/edge", float64(instr)/edges)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, utils.GetMemUsage())
	return
}

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
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/notargets/wavespeed/graphviscosity"
	"github.com/notargets/wavespeed/riemann"
	"github.com/notargets/wavespeed/utils"
)

// BatchCmd represents the batch command
var BatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate every edge of a random graph and assemble the graph viscosity",
	Long: `
Builds a ring graph with random coupling coefficients and random admissible
states, evaluates lambda_max on every edge in parallel and assembles
d_ij = lambda_max |c_ij|.

wavespeed batch --nodes 100000 --neighbors 8 --dim 3`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			ip  = processInput(cmd)
			mb  = &ModelBatch{
				Nodes:     ip.Nodes,
				Neighbors: ip.Neighbors,
				Dim:       ip.Dimension,
				Seed:      ip.Seed,
				Lanes:     ip.Lanes,
				ProcLimit: ip.ProcLimit,
			}
		)
		if cmd.Flags().Changed("nodes") {
			mb.Nodes, _ = cmd.Flags().GetInt("nodes")
		}
		if cmd.Flags().Changed("neighbors") {
			mb.Neighbors, _ = cmd.Flags().GetInt("neighbors")
		}
		if cmd.Flags().Changed("dim") {
			mb.Dim, _ = cmd.Flags().GetInt("dim")
		}
		if cmd.Flags().Changed("seed") {
			mb.Seed, _ = cmd.Flags().GetInt64("seed")
		}
		if cmd.Flags().Changed("lanes") {
			mb.Lanes, _ = cmd.Flags().GetBool("lanes")
		}
		if cmd.Flags().Changed("procLimit") {
			mb.ProcLimit, _ = cmd.Flags().GetInt("procLimit")
		}
		mb.CFL, _ = cmd.Flags().GetFloat64("CFL")
		mb.MetricsFile, _ = cmd.Flags().GetString("metricsFile")
		if mb.Config, err = ip.Config(); err != nil {
			panic(err)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err = RunBatch(ctx, cmd.OutOrStdout(), mb); err != nil {
			log := utils.Logger()
			log.Error().Err(err).Msg("batch failed")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(BatchCmd)
	BatchCmd.Flags().IntP("nodes", "k", 1000, "number of nodes in the graph")
	BatchCmd.Flags().IntP("neighbors", "n", 6, "edges per node")
	BatchCmd.Flags().Int("dim", 2, "spatial dimension, 1 to 3")
	BatchCmd.Flags().Int64("seed", 1, "seed of the random graph and states")
	BatchCmd.Flags().Bool("lanes", true, "evaluate edges four at a time")
	BatchCmd.Flags().Int("procLimit", 0, "number of parallel buckets, 0 uses every CPU")
	BatchCmd.Flags().Float64("CFL", 0.5, "CFL number of the reported time step")
	BatchCmd.Flags().String("metricsFile", "", "write Prometheus metrics in text format to this file")
}

type ModelBatch struct {
	Nodes, Neighbors, Dim int
	Seed                  int64
	Lanes                 bool
	ProcLimit             int
	CFL                   float64
	MetricsFile           string
	Config                riemann.Config
}

func RunBatch(ctx context.Context, w io.Writer, mb *ModelBatch) (err error) {
	var (
		rnd    = rand.New(rand.NewSource(mb.Seed))
		es     *graphviscosity.EdgeSet
		ev     *graphviscosity.Evaluator
		res    *graphviscosity.Result
		logger = utils.Logger()
	)
	if mb.Dim < 1 || mb.Dim > riemann.MaxDim {
		return fmt.Errorf("dimension %d out of range [1,%d]", mb.Dim, riemann.MaxDim)
	}
	if es, err = graphviscosity.RingGraph(mb.Nodes, mb.Neighbors, mb.Dim, rnd); err != nil {
		return
	}
	states := graphviscosity.RandomStates(mb.Nodes, mb.Dim, mb.Config.Gamma, rnd)
	logger.Info().Int("nodes", mb.Nodes).Int("edges", es.Len()).Int("dim", mb.Dim).Msg("graph built")
	var (
		reg  = prometheus.NewRegistry()
		opts = []graphviscosity.Option{
			graphviscosity.WithLanes(mb.Lanes),
			graphviscosity.WithProcLimit(mb.ProcLimit),
			graphviscosity.WithMetrics(reg),
		}
	)
	if ev, err = graphviscosity.NewEvaluator(mb.Config, es, opts...); err != nil {
		return
	}
	if res, err = ev.Evaluate(ctx, states); err != nil {
		return
	}
	if len(mb.MetricsFile) != 0 {
		if err = prometheus.WriteToTextfile(mb.MetricsFile, reg); err != nil {
			return
		}
		logger.Info().Str("file", mb.MetricsFile).Msg("metrics written")
	}
	fmt.Fprint(w, res.Summary())
	var (
		D    = res.AssembleViscosity()
		mass = make([]float64, mb.Nodes)
	)
	for i := range mass {
		mass[i] = es.Hd[i]
	}
	fmt.Fprintf(w, "[%d]\t\t= Nonzeros of D\n", D.NNZ())
	fmt.Fprintf(w, "%12.6e\t= Stable Time Step\n", res.StableTimeStep(D, mass, mb.CFL))
	return
}

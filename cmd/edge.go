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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/notargets/wavespeed/InputParameters"
	"github.com/notargets/wavespeed/riemann"
	"github.com/notargets/wavespeed/sod_shock_tube"
	"github.com/notargets/wavespeed/utils"
)

// EdgeCmd represents the edge command
var EdgeCmd = &cobra.Command{
	Use:   "edge",
	Short: "Wave speed bound for one pair of states",
	Long: `
Computes lambda_max and the star pressure bound for a single Riemann problem.
States come from the flags or, by name, from the States section of the input
file. Without either the Sod shock tube states are used.

wavespeed edge --left 1,0,1 --right 0.125,0,0.1 --newtonMaxIter 4`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			me  = &ModelEdge{}
			ip  = processInput(cmd)
		)
		leftName, _ := cmd.Flags().GetString("leftState")
		rightName, _ := cmd.Flags().GetString("rightState")
		if me.Left, err = edgeState(cmd, ip, "left", leftName, sod_shock_tube.SodLeft); err != nil {
			panic(err)
		}
		if me.Right, err = edgeState(cmd, ip, "right", rightName, sod_shock_tube.SodRight); err != nil {
			panic(err)
		}
		if me.Config, err = ip.Config(); err != nil {
			panic(err)
		}
		me.Verbose, _ = cmd.Flags().GetBool("verbose")
		RunEdge(cmd.OutOrStdout(), me)
	},
}

func init() {
	rootCmd.AddCommand(EdgeCmd)
	EdgeCmd.Flags().Float64Slice("left", nil, "left state as rho,u,p")
	EdgeCmd.Flags().Float64Slice("right", nil, "right state as rho,u,p")
	EdgeCmd.Flags().String("leftState", "", "name of the left state in the input file")
	EdgeCmd.Flags().String("rightState", "", "name of the right state in the input file")
	EdgeCmd.Flags().BoolP("verbose", "v", false, "print the configuration and the bracket")
}

type ModelEdge struct {
	Left, Right sod_shock_tube.State
	Config      riemann.Config
	Verbose     bool
}

func edgeState(cmd *cobra.Command, ip *InputParameters.InputParameters, flag, name string,
	def sod_shock_tube.State) (s sod_shock_tube.State, err error) {
	var (
		vals []float64
	)
	if vals, err = cmd.Flags().GetFloat64Slice(flag); err != nil {
		return
	}
	switch {
	case len(vals) == 3:
		s = sod_shock_tube.State{Rho: vals[0], U: vals[1], P: vals[2]}
	case len(vals) != 0:
		err = fmt.Errorf("--%s takes rho,u,p, got %d values", flag, len(vals))
	case len(name) != 0:
		s.Rho, s.U, s.P, err = ip.State(name)
	default:
		s = def
	}
	return
}

// RunEdge evaluates one edge and reports it against the exact solution
func RunEdge(w io.Writer, me *ModelEdge) {
	var (
		s     = riemann.MustNewSolver[utils.Scalar](me.Config)
		ri    = s.NewPrimitive(utils.Scalar(me.Left.Rho), utils.Scalar(me.Left.U), utils.Scalar(me.Left.P))
		rj    = s.NewPrimitive(utils.Scalar(me.Right.Rho), utils.Scalar(me.Right.U), utils.Scalar(me.Right.P))
		r     = s.Compute(ri, rj)
		exact = sod_shock_tube.MaxSignalSpeed(me.Left, me.Right, me.Config.Gamma)
	)
	if me.Config.Greedy {
		// the greedy pass needs conserved states, the edge is taken along x
		var (
			Ui = []utils.Scalar{ri.Rho, ri.Rho * ri.U, ri.P/utils.Scalar(me.Config.Gamma-1) + 0.5*ri.Rho*ri.U*ri.U}
			Uj = []utils.Scalar{rj.Rho, rj.Rho * rj.U, rj.P/utils.Scalar(me.Config.Gamma-1) + 0.5*rj.Rho*rj.U*rj.U}
		)
		r = s.ComputeFromStates(Ui, Uj, []utils.Scalar{1}, 0)
	}
	if me.Verbose {
		me.Config.Print()
		b := s.ComputeBracket(ri, rj)
		fmt.Fprintf(w, "[%8.5g, %8.5g]\t= Bracket\n", float64(b.PLo), float64(b.PHi))
		if me.Left == sod_shock_tube.SodLeft && me.Right == sod_shock_tube.SodRight && me.Config.Gamma == 1.4 {
			reportSod(w, sodTime)
		}
	}
	fmt.Fprintf(w, "%12.8f\t= Lambda Max\n", float64(r.LambdaMax))
	fmt.Fprintf(w, "%12.8f\t= P Star Bound\n", float64(r.PStar))
	fmt.Fprintf(w, "[%d]\t\t= Iterations\n", r.Iterations)
	fmt.Fprintf(w, "%12.8f\t= Exact Max Signal Speed\n", exact)
	if exact > 0 {
		fmt.Fprintf(w, "%12.8f\t= Ratio\n", float64(r.LambdaMax)/exact)
	}
}

const sodTime = 0.2

// reportSod prints the analytic Sod wave positions at time t, the shock
// moves at the exact right going signal speed
func reportSod(w io.Writer, t float64) {
	_, _, _, _, _, pPost, x1, x4 := sod_shock_tube.SOD_calc(t)
	fmt.Fprintf(w, "%12.8f\t= Sod Post Shock Pressure\n", pPost)
	fmt.Fprintf(w, "%12.8f\t= Sod Rarefaction Head at t=%g\n", x1, t)
	fmt.Fprintf(w, "%12.8f\t= Sod Shock Position at t=%g\n", x4, t)
	fmt.Fprintf(w, "%12.8f\t= Sod Shock Speed\n", (x4-0.5)/t)
}

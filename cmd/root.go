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
	"io/ioutil"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/wavespeed/InputParameters"
	"github.com/notargets/wavespeed/utils"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wavespeed",
	Short: "Guaranteed maximal wave speed estimates for the Euler equations",
	Long: `
Computes upper bounds on the maximal wave speed of the 1D Riemann problem
between two states of the compressible Euler equations, the quantity that sets
the graph viscosity of invariant domain preserving schemes.

wavespeed edge   - a single pair of states
wavespeed batch  - a random graph evaluated in parallel, with d_ij assembly
wavespeed bench  - throughput of the scalar and four lane kernels`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return utils.SetLogLevel(viper.GetString("logLevel"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.wavespeed.yaml)")
	pf.StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Gamma\n\t- NewtonMaxIter\n\t- States")
	pf.String("logLevel", "info", "one of trace, debug, info, warn, error")
	pf.Float64("gamma", 0, "adiabatic exponent, overrides the input file")
	pf.Int("newtonMaxIter", 0, "maximum number of quadratic Newton steps, 0 uses the two-rarefaction estimate")
	pf.Float64("newtonTolerance", 0, "wave speed gap at which the iteration stops")
	pf.Bool("greedy", false, "minimize the estimate against density and entropy bounds")
	pf.Float64("greedyThreshold", 0, "density contrast below which the greedy pass is skipped")
	pf.Bool("greedyRelaxBounds", false, "relax the greedy entropy bounds by the local length scale")
	pf.Int("lineSearchMaxIter", 0, "bisection steps of the greedy limiter")
	pf.Bool("validate", false, "check contracts and post-conditions, panicking on violation")
	for _, key := range []string{"logLevel", "gamma", "newtonMaxIter", "newtonTolerance",
		"greedy", "greedyThreshold", "greedyRelaxBounds", "lineSearchMaxIter", "validate"} {
		if err := viper.BindPFlag(key, pf.Lookup(key)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Search config in home directory with name ".wavespeed" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".wavespeed")
	}

	viper.SetEnvPrefix("WAVESPEED")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log := utils.Logger()
		log.Info().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}

/*
processInput reads the input parameters file, if any, then applies the
settings from the config file, the environment and the command line, in
increasing order of precedence.
*/
func processInput(cmd *cobra.Command) (ip *InputParameters.InputParameters) {
	var (
		err error
	)
	ip = InputParameters.NewInputParameters()
	fileName, _ := cmd.Flags().GetString("inputConditionsFile")
	if len(fileName) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(fileName); err != nil {
			panic(err)
		}
		if err = ip.Parse(data); err != nil {
			panic(err)
		}
	}
	if viper.IsSet("gamma") {
		ip.Gamma = viper.GetFloat64("gamma")
	}
	if viper.IsSet("newtonMaxIter") {
		ip.NewtonMaxIter = viper.GetInt("newtonMaxIter")
	}
	if viper.IsSet("newtonTolerance") {
		ip.NewtonTolerance = viper.GetFloat64("newtonTolerance")
	}
	if viper.IsSet("greedy") {
		ip.Greedy = viper.GetBool("greedy")
	}
	if viper.IsSet("greedyThreshold") {
		ip.GreedyThreshold = viper.GetFloat64("greedyThreshold")
	}
	if viper.IsSet("greedyRelaxBounds") {
		ip.GreedyRelaxBounds = viper.GetBool("greedyRelaxBounds")
	}
	if viper.IsSet("lineSearchMaxIter") {
		ip.LineSearchMaxIter = viper.GetInt("lineSearchMaxIter")
	}
	if viper.IsSet("validate") {
		ip.Validate = viper.GetBool("validate")
	}
	return
}

package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/bandit-sim/sim/experiment"
)

var defaultConfigCmd = &cobra.Command{
	Use:   "default-config",
	Short: "Print the default experiment as YAML",
	Long:  "Print the default experiment (softmax temperature sweep over five shuffled Bernoulli arms) as a YAML spec. Output is written to stdout; edit it and pass it back with `run --config`.",
	Run: func(cmd *cobra.Command, args []string) {
		writeSpecToStdout(experiment.DefaultSpec())
	},
}

func writeSpecToStdout(spec *experiment.Spec) {
	data, err := yaml.Marshal(spec)
	if err != nil {
		logrus.Fatalf("YAML marshal failed: %v", err)
	}
	fmt.Print(string(data))
}

func init() {
	rootCmd.AddCommand(defaultConfigCmd)
}

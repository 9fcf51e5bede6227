package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/infersim/infersim/config"
)

var dumpConfigCmd = &cobra.Command{
	Use:   "dump-config <preset>",
	Short: "Print the effective merged configuration and exit",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		res := loadEffectiveConfigOrExit(args[0])

		data, err := config.Dump(&res.eff)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error dumping config: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(string(data))
	},
}

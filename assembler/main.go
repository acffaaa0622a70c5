package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"sic_assembler/assembler/internal"
)

// A simple program accepts a SIC assembly source file and assembles it into a SIC object file
// next to it, going through an intermediate file written by the first pass.

var config = internal.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "sicasm sourceFile",
	Short: "A two-pass assembler for the SIC machine",
	Long: `Sicasm assembles one SIC source file into an object file of H, T and E records.

For a source file prog.asm it writes prog.intermediate (the sized lines of the first
pass), prog.obj, and unless disabled prog.symbol.dump and prog.block.dump.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		asm, err := internal.CreateAssembler(config)
		if err != nil {
			return err
		}
		return asm.Assemble(args[0])
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&config.OpcodeTablePath, "optab", "", "the opcode table file, the built-in SIC table when empty")
	flags.BoolVar(&config.ContinueAfterPassOneError, "continue-on-error", config.ContinueAfterPassOneError, "whether run pass 2 after pass 1 failed")
	flags.BoolVar(&config.Dump, "dump", config.Dump, "whether write the symbol and block tables to dump files")
	flags.BoolVar(&config.Verbose, "verbose", false, "whether print the symbol and block tables")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

func main() {
	err := rootCmd.Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Assembler]: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/NebulousLabs/errors"

	"gitlab.com/scpcorp/gatewayd/build"
	"gitlab.com/scpcorp/gatewayd/keypair"
	"gitlab.com/scpcorp/gatewayd/modules"
)

var (
	// errHelp is returned by parseInvocation when help was printed and no
	// command was selected.
	errHelp = errors.New("help requested")

	errMissingSubcommand = errors.New("a subcommand is required")
	errDaemonStdin       = errors.New("--daemon and --stdin cannot be combined: a daemon has no stdin")
)

// infoFields are the fields `info` can print.
var infoFields = []string{"key", "region", "listen", "uplinks", "duplicates", "forwarders", "stale_forwarders", "version"}

// invocation is the parsed command line.
type invocation struct {
	settingsPath string
	daemon       bool
	watchStdin   bool
	cmd          subcommand
}

// parseInvocation parses args. It has no side effects besides cobra writing
// help and usage errors to stdout and stderr.
func parseInvocation(args []string, stdout, stderr io.Writer) (invocation, error) {
	var inv invocation
	root := &cobra.Command{
		Use:   build.BinaryName,
		Short: "Gateway Daemon v" + build.Version,
		Long:  "Gateway Daemon v" + build.Version,
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if inv.daemon && inv.watchStdin {
				return errDaemonStdin
			}
			return nil
		},
		RunE: func(*cobra.Command, []string) error {
			return errMissingSubcommand
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVarP(&inv.settingsPath, "config", "c", build.SettingsFile(), "settings file")
	root.PersistentFlags().BoolVarP(&inv.daemon, "daemon", "", false, "detach from the terminal and write a PID file to "+build.PIDFile())
	root.PersistentFlags().BoolVarP(&inv.watchStdin, "stdin", "", false, "shut down when stdin is closed")

	root.AddCommand(keyCommand(&inv), infoCommand(&inv), serverCommand(&inv), addCommand(&inv))

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		return invocation{}, err
	}
	if inv.cmd == nil {
		return invocation{}, errHelp
	}
	return inv, nil
}

func keyCommand(inv *invocation) *cobra.Command {
	keyRoot := &cobra.Command{
		Use:   "key",
		Short: "Manage the gateway key",
		Long:  "Show or create the keypair identifying this gateway.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return errors.AddContext(errMissingSubcommand, "key")
		},
	}
	var showSeed bool
	showCmd := &cobra.Command{
		Use:   "info",
		Short: "Print the gateway address",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			inv.cmd = keyCmd{showSeed: showSeed}
			return nil
		},
	}
	showCmd.Flags().BoolVarP(&showSeed, "seed", "", false, "also print the seed phrase")
	keyRoot.AddCommand(showCmd)

	var force bool
	var restore string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Generate a new gateway key",
		Long:  "Generate a new gateway key, or restore one from its seed phrase, and store it in the key file named by the settings. The seed phrase of a generated key is printed once; keep it as a backup.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			inv.cmd = keyCmd{create: true, force: force, restore: restore}
			return nil
		},
	}
	createCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing key file")
	createCmd.Flags().StringVarP(&restore, "restore", "", "", "seed phrase of the key to restore")
	keyRoot.AddCommand(createCmd)
	return keyRoot
}

func infoCommand(inv *invocation) *cobra.Command {
	return &cobra.Command{
		Use:   "info [field...]",
		Short: "Print information about the running gateway",
		Long:  "Print information about the running gateway. Fields: " + strings.Join(infoFields, ", ") + ".",
		RunE: func(_ *cobra.Command, args []string) error {
			fields := args
			if len(fields) == 0 {
				fields = infoFields
			}
			for _, f := range fields {
				if !isInfoField(f) {
					return fmt.Errorf("unknown info field %q", f)
				}
			}
			inv.cmd = infoCmd{fields: fields}
			return nil
		},
	}
}

func serverCommand(inv *invocation) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Run the gateway",
		Long:  "Run the gateway until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			inv.cmd = serverCmd{}
			return nil
		},
	}
}

func addCommand(inv *invocation) *cobra.Command {
	var owner, payer, mode string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a signed add-gateway transaction",
		Long:  "Ask the running gateway to sign a transaction adding it to the network.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			ownerKey, err := keypair.ParsePublicKey(owner)
			if err != nil {
				return errors.AddContext(err, "bad --owner")
			}
			payerKey, err := keypair.ParsePublicKey(payer)
			if err != nil {
				return errors.AddContext(err, "bad --payer")
			}
			m, err := modules.ParseGatewayMode(mode)
			if err != nil {
				return err
			}
			inv.cmd = addCmd{owner: ownerKey, payer: payerKey, mode: m}
			return nil
		},
	}
	cmd.Flags().StringVarP(&owner, "owner", "", "", "address of the gateway owner")
	cmd.Flags().StringVarP(&payer, "payer", "", "", "address paying the fees")
	cmd.Flags().StringVarP(&mode, "mode", "", modules.GatewayModeFull.String(), "gateway mode: dataonly, light or full")
	cmd.MarkFlagRequired("owner")
	cmd.MarkFlagRequired("payer")
	return cmd
}

func isInfoField(f string) bool {
	for _, known := range infoFields {
		if f == known {
			return true
		}
	}
	return false
}

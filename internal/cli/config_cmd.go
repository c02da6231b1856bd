package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/calibre-xmnote/internal/entrypoint"
)

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the target device address",
	}
	cmd.AddCommand(newConfigShowCommand(opts), newConfigSetCommand(opts), newConfigResetCommand(opts))
	return cmd
}

func newConfigShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the device address and where each value comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(false, func(app *entrypoint.App) error {
				printDevice(cmd, app)
				return nil
			})
		},
	}
}

func printDevice(cmd *cobra.Command, app *entrypoint.App) {
	out := cmd.OutOrStdout()
	device := app.Settings.Device()
	fmt.Fprintf(out, "server_ip_addr: %s (%s)\n", device.IPAddr.Value, device.IPAddr.Source)
	fmt.Fprintf(out, "server_port:    %s (%s)\n", device.Port.Value, device.Port.Source)
	fmt.Fprintf(out, "custom port:    %t\n", app.Config.Device.PortEnabled)
}

func newConfigSetCommand(opts *rootOptions) *cobra.Command {
	var ip, port string

	cmd := &cobra.Command{
		Use:     "set",
		Short:   "Save the device IP address and, optionally, its port",
		Args:    cobra.NoArgs,
		Example: `  calibre-xmnote config set --ip 192.168.1.23 --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(false, func(app *entrypoint.App) error {
				if err := app.Settings.Save(ip, port); err != nil {
					return reportError(cmd.OutOrStdout(), err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "✅ Settings saved")
				printDevice(cmd, app)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ip, "ip", "", "Device IPv4 address shown at the bottom of XMnote's API import page")
	cmd.Flags().StringVar(&port, "port", "", "Device port (1024-65534); left unchanged when empty")
	_ = cmd.MarkFlagRequired("ip")
	return cmd
}

func newConfigResetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget saved values so environment or defaults apply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(false, func(app *entrypoint.App) error {
				if err := app.Settings.Reset(); err != nil {
					return err
				}
				printDevice(cmd, app)
				return nil
			})
		},
	}
}

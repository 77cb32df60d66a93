package commands

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/c2fo/blobfs"
)

const defaultExpiry = time.Hour

func newURLCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "url disk:path",
		Short: "Print the public URL of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, loc, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			url, err := d.URL(cmd.Context(), loc.path)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.out, url)
			return nil
		},
	}
}

func newTempURLCommand(a *app) *cobra.Command {
	var expires time.Duration
	cmd := &cobra.Command{
		Use:   "temp-url disk:path",
		Short: "Print a URL granting read access to a file for a limited time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, loc, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			url, err := d.TemporaryURL(cmd.Context(), loc.path, time.Now().Add(expires), nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.out, url)
			return nil
		},
	}
	cmd.Flags().DurationVarP(&expires, "expires", "e", defaultExpiry, "how long the URL stays valid")
	return cmd
}

func newUploadURLCommand(a *app) *cobra.Command {
	var (
		expires time.Duration
		headers map[string]string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "upload-url disk:path",
		Short: "Print a URL, and the headers to send with it, for uploading a file directly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, loc, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			cfg := blobfs.Config{}
			if len(headers) > 0 {
				cfg[blobfs.OptionHeaders] = headers
			}
			upload, err := d.TemporaryUploadURL(cmd.Context(), loc.path, time.Now().Add(expires), cfg)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(upload)
			}
			_, _ = fmt.Fprintln(a.out, upload.URL)
			for _, key := range slices.Sorted(maps.Keys(upload.Headers)) {
				_, _ = labelColor.Fprintf(a.out, "%s: ", key)
				_, _ = fmt.Fprintln(a.out, upload.Headers[key])
			}
			return nil
		},
	}
	cmd.Flags().DurationVarP(&expires, "expires", "e", defaultExpiry, "how long the URL stays valid")
	cmd.Flags().StringToStringVarP(&headers, "header", "H", nil, "header the upload must carry, as name=value")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the URL and headers as JSON")
	return cmd
}

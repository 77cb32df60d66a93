package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/c2fo/blobfs"
)

var (
	dirColor     = color.New(color.FgBlue, color.Bold)
	successColor = color.New(color.FgGreen)
	labelColor   = color.New(color.FgCyan)
	defaultColor = color.New(color.FgYellow)
)

func newDisksCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disks",
		Short: "List the configured disks",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, name := range a.manager.Names() {
				if name == a.manager.DefaultName() {
					_, _ = defaultColor.Fprintf(a.out, "%s (default)\n", name)
					continue
				}
				_, _ = fmt.Fprintln(a.out, name)
			}
			return nil
		},
	}
}

func newLsCommand(a *app) *cobra.Command {
	var recursive, long bool
	cmd := &cobra.Command{
		Use:   "ls [disk:path]",
		Short: "List files and directories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			d, loc, err := a.resolve(arg)
			if err != nil {
				return err
			}
			for entry, err := range d.Filesystem().ListContents(cmd.Context(), loc.path, recursive) {
				if err != nil {
					return err
				}
				a.printEntry(entry, long)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "list nested directories too")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show size, last modified time and visibility")
	return cmd
}

func (a *app) printEntry(entry blobfs.StorageAttributes, long bool) {
	if long {
		size, modified, visibility := "-", "-", "-"
		if entry.FileSize != nil {
			size = fmt.Sprint(*entry.FileSize)
		}
		if entry.LastModified != nil {
			modified = entry.LastModified.UTC().Format(time.RFC3339)
		}
		if entry.Visibility != "" {
			visibility = entry.Visibility.String()
		}
		_, _ = fmt.Fprintf(a.out, "%12s  %-20s  %-7s  ", size, modified, visibility)
	}
	if entry.IsDir() {
		_, _ = dirColor.Fprintln(a.out, entry.Path+"/")
		return
	}
	_, _ = fmt.Fprintln(a.out, entry.Path)
}

func newCatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat disk:path",
		Short: "Print the contents of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, loc, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			r, err := d.ReadStream(cmd.Context(), loc.path)
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()
			_, err = io.Copy(a.out, r)
			return err
		},
	}
}

func newPutCommand(a *app) *cobra.Command {
	var visibility, mimeType string
	cmd := &cobra.Command{
		Use:   "put <local-file|-> disk:path",
		Short: "Upload a local file, or stdin when the source is -",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, loc, err := a.resolve(args[1])
			if err != nil {
				return err
			}
			cfg, err := writeConfig(visibility, mimeType)
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			if err := d.PutStream(cmd.Context(), loc.path, r, cfg); err != nil {
				return err
			}
			_, _ = successColor.Fprintf(a.out, "Uploaded %s to %s\n", args[0], loc)
			return nil
		},
	}
	cmd.Flags().StringVar(&visibility, "visibility", "", "visibility of the uploaded file (public or private)")
	cmd.Flags().StringVar(&mimeType, "mimetype", "", "mime type of the uploaded file (detected when empty)")
	return cmd
}

func writeConfig(visibility, mimeType string) (blobfs.Config, error) {
	cfg := blobfs.Config{}
	if visibility != "" {
		v, err := blobfs.ParseVisibility(visibility)
		if err != nil {
			return nil, err
		}
		cfg[blobfs.OptionVisibility] = v
	}
	if mimeType != "" {
		cfg[blobfs.OptionMimeType] = mimeType
	}
	return cfg, nil
}

func newCpCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cp disk:source disk:destination",
		Short: "Copy a file, within a disk or across disks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.transfer(cmd, args[0], args[1], false); err != nil {
				return err
			}
			_, _ = successColor.Fprintf(a.out, "Copied %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

func newMvCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mv disk:source disk:destination",
		Short: "Move a file, within a disk or across disks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.transfer(cmd, args[0], args[1], true); err != nil {
				return err
			}
			_, _ = successColor.Fprintf(a.out, "Moved %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

// transfer copies or moves src to dst. Within one disk the adapter does the work; across disks the file is
// streamed from one to the other and, for a move, deleted afterwards.
func (a *app) transfer(cmd *cobra.Command, src, dst string, move bool) error {
	ctx := cmd.Context()
	srcDisk, srcLoc, err := a.resolve(src)
	if err != nil {
		return err
	}
	dstDisk, dstLoc, err := a.resolve(dst)
	if err != nil {
		return err
	}

	if srcLoc.disk == dstLoc.disk {
		if move {
			return srcDisk.Move(ctx, srcLoc.path, dstLoc.path)
		}
		return srcDisk.Copy(ctx, srcLoc.path, dstLoc.path)
	}

	r, err := srcDisk.ReadStream(ctx, srcLoc.path)
	if err != nil {
		return err
	}
	err = dstDisk.PutStream(ctx, dstLoc.path, r, nil)
	if closeErr := r.Close(); err == nil {
		err = closeErr
	}
	if err != nil || !move {
		return err
	}
	return srcDisk.Delete(ctx, srcLoc.path)
}

func newRmCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm disk:path...",
		Short: "Delete files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, arg := range args {
				d, loc, err := a.resolve(arg)
				if err == nil {
					err = d.Delete(cmd.Context(), loc.path)
				}
				if err != nil {
					errs = append(errs, err)
					continue
				}
				_, _ = successColor.Fprintf(a.out, "Deleted %s\n", loc)
			}
			return errors.Join(errs...)
		},
	}
}

func newRmdirCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rmdir disk:path",
		Short: "Delete a directory and everything below it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, loc, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if err := d.DeleteDirectory(cmd.Context(), loc.path); err != nil {
				return err
			}
			_, _ = successColor.Fprintf(a.out, "Deleted directory %s\n", loc)
			return nil
		},
	}
}

func newMkdirCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir disk:path",
		Short: "Create a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, loc, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if err := d.MakeDirectory(cmd.Context(), loc.path); err != nil {
				return err
			}
			_, _ = successColor.Fprintf(a.out, "Created directory %s\n", loc)
			return nil
		},
	}
}

func newStatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stat disk:path",
		Short: "Show the metadata of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, loc, err := a.resolve(args[0])
			if err != nil {
				return err
			}

			size, err := d.Size(ctx, loc.path)
			if err != nil {
				return err
			}
			mimeType, err := d.MimeType(ctx, loc.path)
			if err != nil {
				return err
			}
			modified, err := d.LastModified(ctx, loc.path)
			if err != nil {
				return err
			}
			visibility := "-"
			if v, err := d.Visibility(ctx, loc.path); err == nil {
				visibility = v.String()
			} else if !errors.Is(err, blobfs.ErrVisibilityNotSupported) && !errors.Is(err, blobfs.ErrUnsupported) {
				return err
			}
			checksum, err := d.Checksum(ctx, loc.path, nil)
			if err != nil {
				return err
			}

			a.field("Location", loc.String())
			a.field("Size", fmt.Sprint(size))
			a.field("MimeType", mimeType)
			a.field("Modified", modified.UTC().Format(time.RFC3339))
			a.field("Visibility", visibility)
			a.field("Checksum", checksum)
			return nil
		},
	}
}

func (a *app) field(label, value string) {
	_, _ = labelColor.Fprintf(a.out, "%-11s", label+":")
	_, _ = fmt.Fprintln(a.out, value)
}

package os

import (
	"errors"
	"io"
	"os"

	"github.com/c2fo/blobfs/utils"
)

const osCrossDeviceLinkError = "invalid cross-device link"

// safeOsRename will attempt to do an os.Rename. If error is "invalid cross-device link" (where one OS file is on a
// different device/volume than the other), then fall back to doing a copy-delete.
func safeOsRename(srcName, dstName string) error {
	err := os.Rename(srcName, dstName)
	if err != nil {
		var e *os.LinkError
		if errors.As(err, &e) && e.Err.Error() == osCrossDeviceLinkError {
			// do cross-device renaming
			if err := osCopy(srcName, dstName); err != nil {
				return err
			}
			// delete original file
			return os.Remove(srcName)
		}
		// return non-CrossDeviceLink error
		return err
	}
	return nil
}

// osCopy just io.Copy's the os files, keeping the permissions of the source.
func osCopy(srcName, dstName string) error {
	// setup os reader
	srcReader, err := os.Open(srcName) //nolint:gosec
	if err != nil {
		return err
	}
	defer func() { _ = srcReader.Close() }()

	info, err := srcReader.Stat()
	if err != nil {
		return err
	}

	// setup os writer
	dstWriter, err := os.OpenFile(dstName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec
	if err != nil {
		return err
	}

	// copy os files. Note that os.OpenFile with O_CREATE always does a "touch" (creates an empty file before writing
	// data) so no need to do a TouchCopy like we do with other filesystems.
	buffer := make([]byte, utils.TouchCopyMinBufferSize)
	if _, err = io.CopyBuffer(dstWriter, srcReader, buffer); err != nil {
		_ = dstWriter.Close()
		return err
	}
	if err := dstWriter.Close(); err != nil {
		return err
	}
	return os.Chmod(dstName, info.Mode().Perm())
}

package blobfs_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend/mem"
)

func ExampleOperationError() {
	fs := blobfs.New(mem.NewAdapter(), nil)

	_, err := fs.Read(context.Background(), "reports/missing.txt")
	fmt.Println(errors.Is(err, blobfs.ErrNotExist))

	var opErr *blobfs.OperationError
	if errors.As(err, &opErr) {
		fmt.Println(opErr.Op, opErr.Path)
	}
	// Output:
	// true
	// read reports/missing.txt
}

func ExampleFilesystem_ListContents() {
	ctx := context.Background()
	fs := blobfs.New(mem.NewAdapter(), nil)
	_ = fs.Write(ctx, "reports/2024/a.txt", []byte("a"), nil)
	_ = fs.Write(ctx, "reports/b.txt", []byte("b"), nil)

	for entry, err := range fs.ListContents(ctx, "/reports/", true) {
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(entry.Type, entry.Path)
	}
	// Output:
	// dir reports/2024
	// file reports/2024/a.txt
	// file reports/b.txt
}

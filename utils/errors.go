package utils

import "fmt"

func wrap(kind string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s error: %w", kind, err)
}

// WrapReadError returns a wrapped read error
func WrapReadError(err error) error { return wrap("read", err) }

// WrapWriteError returns a wrapped write error
func WrapWriteError(err error) error { return wrap("write", err) }

// WrapCloseError returns a wrapped close error
func WrapCloseError(err error) error { return wrap("close", err) }

// WrapExistsError returns a wrapped exists error
func WrapExistsError(err error) error { return wrap("exists", err) }

// WrapListError returns a wrapped list error
func WrapListError(err error) error { return wrap("list", err) }

// WrapCopyError returns a wrapped copy error
func WrapCopyError(err error) error { return wrap("copy", err) }

// WrapDeleteError returns a wrapped delete error
func WrapDeleteError(err error) error { return wrap("delete", err) }

// WrapSignError returns a wrapped url signing error
func WrapSignError(err error) error { return wrap("sign", err) }

package utils_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/c2fo/blobfs/utils"
)

type errorsSuite struct {
	suite.Suite
}

// TestErrorWrapFunctions tests all error wrap functions with both nil and non-nil errors
func (s *errorsSuite) TestErrorWrapFunctions() {
	testError := errors.New("test error")

	testCases := []struct {
		name        string
		wrapFunc    func(error) error
		expectedMsg string
	}{
		{name: "WrapReadError", wrapFunc: utils.WrapReadError, expectedMsg: "read error: test error"},
		{name: "WrapWriteError", wrapFunc: utils.WrapWriteError, expectedMsg: "write error: test error"},
		{name: "WrapCloseError", wrapFunc: utils.WrapCloseError, expectedMsg: "close error: test error"},
		{name: "WrapExistsError", wrapFunc: utils.WrapExistsError, expectedMsg: "exists error: test error"},
		{name: "WrapListError", wrapFunc: utils.WrapListError, expectedMsg: "list error: test error"},
		{name: "WrapCopyError", wrapFunc: utils.WrapCopyError, expectedMsg: "copy error: test error"},
		{name: "WrapDeleteError", wrapFunc: utils.WrapDeleteError, expectedMsg: "delete error: test error"},
		{name: "WrapSignError", wrapFunc: utils.WrapSignError, expectedMsg: "sign error: test error"},
	}

	for _, tc := range testCases {
		s.Run(tc.name+"_WithError", func() {
			err := tc.wrapFunc(testError)
			s.Require().EqualError(err, tc.expectedMsg, "error message should be properly wrapped")
			s.Require().ErrorIs(err, testError, "should be able to unwrap to original error")
		})

		s.Run(tc.name+"_WithNil", func() {
			s.Require().NoError(tc.wrapFunc(nil), "should return nil when given a nil error")
		})
	}
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(errorsSuite))
}

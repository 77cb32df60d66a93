package azure

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/c2fo/blobfs/backend/azure/mocks"
)

type NewAdapterOptionTestSuite struct {
	suite.Suite
}

func (s *NewAdapterOptionTestSuite) TestWithClient() {
	client := mocks.NewClient(s.T())
	adapter := NewAdapter(WithClient(client))
	c, err := adapter.Client()
	s.NoError(err)
	s.Same(client, c)
}

func (s *NewAdapterOptionTestSuite) TestWithOptions() {
	adapter := NewAdapter(WithOptions(Options{Container: "c", UploadConcurrency: 9}), WithPrefix("/p/"))
	opts := adapter.Options()
	s.Equal("c", opts.Container)
	s.Equal(9, opts.UploadConcurrency)
	s.Equal("/p/", opts.Prefix)
	s.Equal("p/", adapter.prefixer.Prefix())
	s.Equal(DefaultPublicURLExpiry, opts.PublicURLExpiry, "unset knobs get their defaults")
}

func (s *NewAdapterOptionTestSuite) TestWithOptions_OrderMatters() {
	adapter := NewAdapter(WithPrefix("lost"), WithOptions(Options{Container: "c"}))
	s.Empty(adapter.Options().Prefix, "WithOptions replaces what came before it")
}

func (s *NewAdapterOptionTestSuite) TestWithLogger() {
	logger := slog.New(slog.DiscardHandler)
	s.Same(logger, NewAdapter(WithLogger(logger)).logger)
	s.Same(slog.Default(), NewAdapter(WithLogger(nil)).logger, "a nil logger keeps the default")
}

func (s *NewAdapterOptionTestSuite) TestWithVisibilityHandlingAndDirectURL() {
	opts := NewAdapter(WithVisibilityHandling(VisibilityIgnore), WithDirectPublicURL(true)).Options()
	s.Equal(VisibilityIgnore, opts.VisibilityHandling)
	s.True(opts.UseDirectPublicURL)
}

func (s *NewAdapterOptionTestSuite) TestOptionNames() {
	s.Equal(optionNameClient, WithClient(nil).NewAdapterOptionName())
	s.Equal(optionNameOptions, WithOptions(Options{}).NewAdapterOptionName())
	s.Equal(optionNameLogger, WithLogger(nil).NewAdapterOptionName())
	s.Equal(optionNamePrefix, WithPrefix("").NewAdapterOptionName())
	s.Equal(optionNameVisibilityHandling, WithVisibilityHandling(VisibilityThrow).NewAdapterOptionName())
	s.Equal(optionNameDirectPublicURL, WithDirectPublicURL(false).NewAdapterOptionName())
}

func TestNewAdapterOption(t *testing.T) {
	suite.Run(t, new(NewAdapterOptionTestSuite))
}

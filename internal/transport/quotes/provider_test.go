package quotes

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/tradesim/internal/domain"
	"github.com/fsdevblog/tradesim/internal/transport/quotes/client"
	"github.com/fsdevblog/tradesim/internal/transport/quotes/mocks"
)

type ProviderTestSuite struct {
	suite.Suite
	provider       *Provider
	mockHTTPClient *mocks.MockClient
	ctrl           *gomock.Controller
}

func (s *ProviderTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockHTTPClient = mocks.NewMockClient(s.ctrl)

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	s.provider = NewProvider(s.mockHTTPClient, logger)
}

func (s *ProviderTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderTestSuite))
}

func (s *ProviderTestSuite) TestLookup() {
	s.mockHTTPClient.EXPECT().
		GetQuote(gomock.Any(), "AAA").
		Return(&client.Response{
			Symbol: "AAA",
			Name:   "AAA Corp",
			Price:  decimal.NewFromInt(50),
		}, nil)

	quote, err := s.provider.Lookup(s.T().Context(), "AAA")
	s.Require().NoError(err)
	s.Equal("AAA", quote.Symbol)
	s.Equal("AAA Corp", quote.Name)
	s.True(quote.Price.Equal(decimal.NewFromInt(50)))
}

// TestLookup_UnknownSymbol Неизвестный провайдеру символ транслируется в
// доменную ошибку, а не в инфраструктурную.
func (s *ProviderTestSuite) TestLookup_UnknownSymbol() {
	s.mockHTTPClient.EXPECT().
		GetQuote(gomock.Any(), "NOPE").
		Return(nil, client.ErrSymbolNotFound)

	quote, err := s.provider.Lookup(s.T().Context(), "NOPE")
	s.Require().ErrorIs(err, domain.ErrUnknownSymbol)
	s.Nil(quote)
}

// TestLookup_ProviderDown Недоступность провайдера не подменяется неизвестным
// символом.
func (s *ProviderTestSuite) TestLookup_ProviderDown() {
	s.mockHTTPClient.EXPECT().
		GetQuote(gomock.Any(), "AAA").
		Return(nil, client.NewStatusCodeError(502))

	quote, err := s.provider.Lookup(s.T().Context(), "AAA")
	s.Require().Error(err)
	s.NotErrorIs(err, domain.ErrUnknownSymbol)
	s.Nil(quote)
}

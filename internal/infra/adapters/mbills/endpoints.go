package mbills

import (
	"net/url"
	"strings"

	"mbills-payments/internal/domain/ports/adapter"
)

var _ adapter.GatewayEndpoints = Endpoints{}

const (
	sandboxBaseURL    = "https://mbills-demo-web.mbills.si"
	productionBaseURL = "https://api.mbills.si"
	apiPath           = "/MBillsWS/API/v1/"

	endpointSale              = "transaction/sale"
	endpointTest              = "system/test"
	endpointTestWebhook       = "system/testwebhook"
	endpointTransactionStatus = "transaction/#/status"
)

// Endpoints builds absolute API URLs for one environment.
type Endpoints struct {
	base string
}

// NewEndpoints picks the sandbox or production host; a non-empty override wins.
func NewEndpoints(production bool, override string) Endpoints {
	base := sandboxBaseURL
	if production {
		base = productionBaseURL
	}
	if o := strings.TrimRight(strings.TrimSpace(override), "/"); o != "" {
		base = o
	}
	return Endpoints{base: base}
}

func (e Endpoints) endpoint(path string) string { return e.base + apiPath + path }

func (e Endpoints) Sale() string        { return e.endpoint(endpointSale) }
func (e Endpoints) Test() string        { return e.endpoint(endpointTest) }
func (e Endpoints) TestWebhook() string { return e.endpoint(endpointTestWebhook) }

// TransactionStatus substitutes the (path-escaped) transaction id into the template.
func (e Endpoints) TransactionStatus(transactionID string) string {
	return e.endpoint(strings.Replace(endpointTransactionStatus, "#", url.PathEscape(transactionID), 1))
}

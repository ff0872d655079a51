// Package client talks to the local API of a running gateway.
package client

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gitlab.com/NebulousLabs/errors"

	"gitlab.com/scpcorp/gatewayd/node/api"
)

// requestTimeout bounds a whole API call, including reading the response.
const requestTimeout = 30 * time.Second

// httpClient is shared by every Client.
var httpClient = &http.Client{Timeout: requestTimeout}

// A Client makes requests to the gatewayd HTTP API.
type Client struct {
	// Address is the API address of the gatewayd server.
	Address string

	// UserAgent must match the User-Agent required by the gatewayd server. If
	// not set, it defaults to api.DefaultUserAgent.
	UserAgent string
}

// New creates a new Client using the provided address.
func New(address string) *Client {
	return &Client{
		Address:   address,
		UserAgent: api.DefaultUserAgent,
	}
}

// NewRequest constructs a request to the gatewayd HTTP API, setting the
// correct User-Agent. The resource path must begin with /.
func (c *Client) NewRequest(method, resource string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, "http://"+c.Address+resource, body)
	if err != nil {
		return nil, err
	}
	agent := c.UserAgent
	if agent == "" {
		agent = api.DefaultUserAgent
	}
	req.Header.Set("User-Agent", agent)
	return req, nil
}

// drainAndClose reads rc until EOF and then closes it. drainAndClose should
// always be called on HTTP response bodies, because if the body is not fully
// read, the underlying connection can't be reused.
func drainAndClose(rc io.ReadCloser) {
	io.Copy(ioutil.Discard, rc)
	rc.Close()
}

// readAPIError decodes and returns an api.Error.
func readAPIError(r io.Reader) error {
	var apiErr api.Error
	if err := json.NewDecoder(r).Decode(&apiErr); err != nil {
		return errors.AddContext(err, "could not read error response")
	}
	return apiErr
}

// do sends req and decodes a successful response into obj, if obj is non-nil.
func (c *Client) do(req *http.Request, obj interface{}) error {
	res, err := httpClient.Do(req)
	if err != nil {
		return errors.AddContext(err, "request failed")
	}
	defer drainAndClose(res.Body)

	if res.StatusCode == http.StatusNotFound {
		return errors.New("API call not recognized: " + req.URL.Path)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return readAPIError(res.Body)
	}
	if res.StatusCode == http.StatusNoContent || obj == nil {
		return nil
	}
	return errors.AddContext(json.NewDecoder(res.Body).Decode(obj), "could not read response")
}

// get requests the specified resource. The response, if provided, will be
// decoded into obj. The resource path must begin with /.
func (c *Client) get(resource string, obj interface{}) error {
	req, err := c.NewRequest("GET", resource, nil)
	if err != nil {
		return errors.AddContext(err, "failed to construct GET request")
	}
	return c.do(req, obj)
}

// post makes a POST request to the resource at `resource`, using `data` as the
// request body. The response, if provided, will be decoded into `obj`.
func (c *Client) post(resource string, data string, obj interface{}) error {
	req, err := c.NewRequest("POST", resource, strings.NewReader(data))
	if err != nil {
		return errors.AddContext(err, "failed to construct POST request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, obj)
}

// DaemonVersionGet requests the /daemon/version resource.
func (c *Client) DaemonVersionGet() (dv api.DaemonVersion, err error) {
	err = c.get("/daemon/version", &dv)
	return
}

// GatewayInfoGet uses the /info endpoint to get the state of the running
// gateway.
func (c *Client) GatewayInfoGet() (gig api.GatewayInfoGET, err error) {
	err = c.get("/info", &gig)
	return
}

// AddGatewayPost uses the /add_gateway endpoint to have the gateway sign an
// add-gateway transaction.
func (c *Client) AddGatewayPost(owner, payer, mode string) (agp api.AddGatewayPOST, err error) {
	values := url.Values{}
	values.Set("owner", owner)
	values.Set("payer", payer)
	values.Set("mode", mode)
	err = c.post("/add_gateway", values.Encode(), &agp)
	return
}

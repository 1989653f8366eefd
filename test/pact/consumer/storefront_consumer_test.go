//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	pacttest "github.com/Apurer/catering-api/test/pact"
)

type dishPayload struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	IsAvailable bool    `json:"isAvailable"`
	CategoryID  string  `json:"categoryId"`
}

type orderPayload struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Total  float64 `json:"total"`
	Items  []struct {
		DishID   string `json:"dishId"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
}

type problemDetail struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

type apiError struct {
	status  int
	message string
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.message, e.status)
}

func TestStorefrontContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	dishMatcher := matchers.Map{
		"id":          matchers.Like(pacttest.DishID),
		"name":        matchers.Like(pacttest.DishName),
		"price":       matchers.Like(pacttest.DishPrice),
		"isAvailable": matchers.Like(true),
		"categoryId":  matchers.Like(pacttest.CategoryID),
		"portions":    matchers.ArrayMinLike("4 pers", 1),
	}

	pact.AddInteraction().
		Given(pacttest.StateMenuSeeded).
		UponReceiving("a request for the dishes of a category").
		WithRequest(http.MethodGet, "/api/dishes", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("category", matchers.S(pacttest.CategorySlug))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.ArrayMinLike(dishMatcher, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateDishMissing).
		UponReceiving("a request for a missing dish").
		WithRequest(http.MethodGet, "/api/dishes/"+pacttest.MissingDish).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"status": matchers.Like(http.StatusNotFound),
				"error":  matchers.S("Plat non trouvé"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateMenuSeeded).
		UponReceiving("a checkout of two dishes").
		WithRequest(http.MethodPost, "/api/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleOrderRequest())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":     matchers.Like("0b7e2d4c-5f7a-4a52-9c1e-6d0a3c2b1f00"),
				"status": matchers.S("PENDING"),
				"total":  matchers.Like(2 * pacttest.DishPrice),
				"items": matchers.ArrayMinLike(matchers.Map{
					"dishId":   matchers.S(pacttest.DishID),
					"quantity": matchers.Like(2),
				}, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateSettingsBase).
		UponReceiving("a request for the restaurant settings").
		WithRequest(http.MethodGet, "/api/settings").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"restaurantName":        matchers.Like("Traiteur"),
				"deliveryFee":           matchers.Like(0),
				"freeDeliveryThreshold": matchers.Like(0),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStorefrontClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var dishes []dishPayload
		if err := client.do(ctx, http.MethodGet, "/api/dishes?category="+pacttest.CategorySlug, nil, &dishes); err != nil {
			return fmt.Errorf("list dishes: %w", err)
		}
		if len(dishes) == 0 || dishes[0].ID == "" {
			return fmt.Errorf("expected at least one dish, got %+v", dishes)
		}

		err := client.do(ctx, http.MethodGet, "/api/dishes/"+pacttest.MissingDish, nil, &dishPayload{})
		if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404 for missing dish, got %v", err)
		}

		var order orderPayload
		if err := client.do(ctx, http.MethodPost, "/api/orders", pacttest.ExampleOrderRequest(), &order); err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		if order.ID == "" || len(order.Items) != 1 || order.Items[0].Quantity != 2 {
			return fmt.Errorf("unexpected order %+v", order)
		}

		var settings map[string]any
		if err := client.do(ctx, http.MethodGet, "/api/settings", nil, &settings); err != nil {
			return fmt.Errorf("get settings: %w", err)
		}
		return nil
	})
	require.NoError(t, err)
}

type storefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

func newStorefrontClient(config pactconsumer.MockServerConfig) *storefrontClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &storefrontClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *storefrontClient) do(ctx context.Context, method, path string, body, out any) error {
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		var problem problemDetail
		_ = json.NewDecoder(res.Body).Decode(&problem)
		return apiError{status: res.StatusCode, message: problem.Error}
	}
	return json.NewDecoder(res.Body).Decode(out)
}

package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angelmondragon/designstudio-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/designstudio-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(t *testing.T, rt roundTripFunc, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithHTTPClient(&http.Client{Transport: rt})}, opts...)
	client, err := NewClient("http://catalog.test", opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestListProductsRequestAndDecode(t *testing.T) {
	var capturedURL string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		return jsonResponse(http.StatusOK, `{"data":[{"id":7,"name":"Halo Pendant","price":1250,"currency":"USD","image":"/media/halo.jpg","colors":["white","rose"]}],"meta":{"pagination":{"page":1,"pageSize":24,"total":1}}}`), nil
	})

	page, err := client.ListProducts(context.Background(), ProductQuery{CategoryCode: "pendant", Page: 1, PageSize: 24})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if capturedURL != "http://catalog.test/products?categoryCode=pendant&page=1&pageSize=24" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if len(page.Items) != 1 || page.Items[0].ID != 7 {
		t.Fatalf("unexpected items %+v", page.Items)
	}
	if !page.Items[0].Price.Equal(decimal.NewFromInt(1250)) {
		t.Fatalf("unexpected price %s", page.Items[0].Price)
	}
	if page.Pagination == nil || page.Pagination.Total != 1 {
		t.Fatalf("expected pagination meta, got %+v", page.Pagination)
	}
}

func TestListStonesRepeatsArrayParams(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `{"data":[]}`), nil
	})

	minCarat := 0.5
	_, err := client.ListStones(context.Background(), StoneQuery{
		Page:     2,
		PageSize: 8,
		Shape:    "round",
		Color:    []string{"G", "F"},
		MinCarat: &minCarat,
		Type:     enums.StoneTypeLabGrown,
		Sort:     enums.StoneSortDefault,
	})
	if err != nil {
		t.Fatalf("list stones: %v", err)
	}

	q := captured.URL.Query()
	if got := q["color"]; len(got) != 2 || got[0] != "G" || got[1] != "F" {
		t.Fatalf("expected repeated color params, got %v", got)
	}
	if q.Get("minCarat") != "0.5" || q.Get("type") != "lab_grown" || q.Get("page") != "2" {
		t.Fatalf("unexpected query %v", q)
	}
	if _, ok := q["sort"]; ok {
		t.Fatalf("default sort must be omitted")
	}
	if _, ok := q["maxCarat"]; ok {
		t.Fatalf("unset bounds must be omitted")
	}
}

func TestGetStoneDecodesDetail(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/stones/42" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `{"data":{"id":42,"name":"Round 1.01","type":"natural","shape":"round","carat":1.01,"price":"4200.00","currency":"USD","externalReportNo":"2141438167","images":[{"url":"/a.jpg","alt":"a","sortOrder":2},{"url":"/b.jpg","alt":"b","sortOrder":1,"isPrimary":true}]}}`), nil
	})

	stone, err := client.GetStone(context.Background(), 42)
	if err != nil {
		t.Fatalf("get stone: %v", err)
	}
	if stone.Type != enums.StoneTypeNatural || stone.Carat != 1.01 {
		t.Fatalf("unexpected stone %+v", stone)
	}
	if len(stone.Images) != 2 {
		t.Fatalf("expected gallery, got %+v", stone.Images)
	}
}

func TestNonSuccessStatusMapsToErrors(t *testing.T) {
	status := http.StatusInternalServerError
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(status, `{"message":"boom"}`), nil
	})

	_, err := client.GetProduct(context.Background(), 9)
	if !pkgerrors.Is(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !strings.Contains(err.Error(), "catalog request failed") {
		t.Fatalf("unexpected message %v", err)
	}

	status = http.StatusNotFound
	_, err = client.GetProduct(context.Background(), 9)
	if !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}

	if _, err := client.GetStone(context.Background(), 0); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for zero id, got %v", err)
	}
}

func TestConcurrentIdenticalRequestsShareOneCall(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return jsonResponse(http.StatusOK, `{"data":{"shapes":[{"code":"round","label":"Round"}]}}`), nil
	})

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.StoneFilters(context.Background())
			errs <- err
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("stone filters: %v", err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single upstream call, got %d", got)
	}
}

type recordingObserver struct {
	endpoints []string
	outcomes  []string
}

func (r *recordingObserver) ObserveRequest(endpoint, outcome string, _ time.Duration) {
	r.endpoints = append(r.endpoints, endpoint)
	r.outcomes = append(r.outcomes, outcome)
}

func TestCanceledCallerDoesNotFailSharedRequest(t *testing.T) {
	var calls int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		started <- struct{}{}
		select {
		case <-release:
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
		return jsonResponse(http.StatusOK, `{"data":{"shapes":[{"code":"round","label":"Round"}]}}`), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := client.StoneFilters(ctx)
		first <- err
	}()
	<-started

	second := make(chan error, 1)
	go func() {
		_, err := client.StoneFilters(context.Background())
		second <- err
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case err := <-first:
		if !pkgerrors.Is(err, pkgerrors.CodeDependency) || !errors.Is(err, context.Canceled) {
			t.Fatalf("expected canceled dependency error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("canceled caller did not return")
	}

	close(release)
	select {
	case err := <-second:
		if err != nil {
			t.Fatalf("shared request failed for remaining caller: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("remaining caller did not return")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one upstream call, got %d", got)
	}
}

func TestObserverReceivesOutcome(t *testing.T) {
	obs := &recordingObserver{}
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"items":[{"id":1,"code":"18k","name":"18K Gold","displayOrder":1,"isActive":true}]}`), nil
	}, WithObserver(obs))

	materials, err := client.Materials(context.Background(), true)
	if err != nil {
		t.Fatalf("materials: %v", err)
	}
	if len(materials) != 1 || materials[0].Code != "18k" {
		t.Fatalf("unexpected materials %+v", materials)
	}
	if len(obs.endpoints) != 1 || obs.endpoints[0] != "products.materials" || obs.outcomes[0] != "ok" {
		t.Fatalf("unexpected observations %+v", obs)
	}
}

func TestNewClientRejectsRelativeBase(t *testing.T) {
	if _, err := NewClient("catalog.local/api"); err == nil {
		t.Fatalf("expected relative base url to be rejected")
	}
	client, err := NewClient("")
	if err != nil {
		t.Fatalf("empty base url should fall back to default: %v", err)
	}
	if client.BaseURL() != defaultBaseURL {
		t.Fatalf("unexpected base %q", client.BaseURL())
	}
}

package events_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/features/events"
	"github.com/dalemusser/clubhub/internal/app/system/cache"
	"github.com/dalemusser/clubhub/internal/app/system/listview"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) (*events.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	codec := listview.NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	h := events.NewHandler(db, uierrors.NewErrorLogger(logger), codec, nil, time.UTC, logger)
	h.Now = func() time.Time { return testNow }
	return h, testutil.NewFixtures(t, db)
}

type eventBody struct {
	ID     primitive.ObjectID `json:"_id"`
	Name   string             `json:"event_name"`
	Date   time.Time          `json:"event_date"`
	Venue  string             `json:"venue"`
	Years  []string           `json:"year"`
	Status string             `json:"status"`
}

func TestServeList_Empty(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeList(rec, httptest.NewRequest(http.MethodGet, "/api/events/fetchall", nil))

	testutil.AssertStatus(t, rec, http.StatusNotFound)
	testutil.AssertMessage(t, rec, "No events found")
}

func TestServeList_DerivesStatus(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateEvent(ctx, "Past", testNow.AddDate(0, 0, -3))
	fx.CreateEvent(ctx, "Now", testNow.Add(2*time.Hour))
	fx.CreateEvent(ctx, "Later", testNow.AddDate(0, 1, 0))

	rec := httptest.NewRecorder()
	h.ServeList(rec, httptest.NewRequest(http.MethodGet, "/api/events/fetchall", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var got []eventBody
	testutil.DecodeJSON(t, rec, &got)
	want := map[string]string{"Past": "Completed", "Now": "Today", "Later": "Upcoming"}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for _, ev := range got {
		if ev.Status != want[ev.Name] {
			t.Errorf("%s: status %q, want %q", ev.Name, ev.Status, want[ev.Name])
		}
	}
}

func TestServeUpcoming(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := httptest.NewRecorder()
	h.ServeUpcoming(rec, httptest.NewRequest(http.MethodGet, "/api/events/fetchUpcomingEvents", nil))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
	testutil.AssertMessage(t, rec, "No Recent Activities found")

	fx.CreateEvent(ctx, "Old Meetup", testNow.AddDate(0, 0, -1))
	fx.CreateEvent(ctx, "Hackathon", time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC))
	fx.CreateEvent(ctx, "Gala", time.Date(2025, 8, 2, 19, 0, 0, 0, time.UTC))

	rec = httptest.NewRecorder()
	h.ServeUpcoming(rec, httptest.NewRequest(http.MethodGet, "/api/events/fetchUpcomingEvents", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var got []struct {
		Date  string `json:"date"`
		Title string `json:"title"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(got), got)
	}
	if got[0].Title != "Hackathon" || got[0].Date != "2025-07-01" {
		t.Errorf("first: got %+v", got[0])
	}
	if got[1].Title != "Gala" || got[1].Date != "2025-08-02" {
		t.Errorf("second: got %+v", got[1])
	}
}

func TestServeUpcoming_CachedFeedDropsPassedEvents(t *testing.T) {
	addr := os.Getenv("CLUBHUB_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CLUBHUB_TEST_REDIS_ADDR not set")
	}
	rdb := cache.NewRedis(addr)
	defer rdb.Close()

	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	h.Upcoming = cache.NewUpcoming(rdb, time.Hour, zap.NewNop())
	if !h.Upcoming.Healthy(ctx) {
		t.Skip("redis not reachable")
	}
	h.Upcoming.Invalidate(ctx)
	defer h.Upcoming.Invalidate(context.Background())

	fx.CreateEvent(ctx, "Hackathon", time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC))
	fx.CreateEvent(ctx, "Gala", time.Date(2025, 8, 2, 19, 0, 0, 0, time.UTC))

	fetch := func() []string {
		rec := httptest.NewRecorder()
		h.ServeUpcoming(rec, httptest.NewRequest(http.MethodGet, "/api/events/fetchUpcomingEvents", nil))
		testutil.AssertStatus(t, rec, http.StatusOK)
		var got []struct {
			Title string `json:"title"`
		}
		testutil.DecodeJSON(t, rec, &got)
		titles := make([]string, len(got))
		for i, g := range got {
			titles[i] = g.Title
		}
		return titles
	}

	if got := fetch(); len(got) != 2 {
		t.Fatalf("first fetch: got %v, want both events", got)
	}

	// The cached feed is still within its TTL when the hackathon starts.
	h.Now = func() time.Time { return time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC) }
	if got := fetch(); len(got) != 1 || got[0] != "Gala" {
		t.Errorf("after hackathon: got %v, want [Gala]", got)
	}
}

func TestServeUpcoming_StoreFailure(t *testing.T) {
	h, _ := newTestHandler(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/events/fetchUpcomingEvents", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeUpcoming(rec, req)

	testutil.AssertStatus(t, rec, http.StatusInternalServerError)
}

type viewBody struct {
	Items []eventBody    `json:"items"`
	Total int            `json:"total"`
	State string         `json:"state"`
	View  listview.State `json:"view"`
}

func serveView(t *testing.T, h *events.Handler, q url.Values) viewBody {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeView(rec, httptest.NewRequest(http.MethodGet, "/api/events/view?"+q.Encode(), nil))
	testutil.AssertStatus(t, rec, http.StatusOK)
	var body viewBody
	testutil.DecodeJSON(t, rec, &body)
	return body
}

func TestServeView_FilterAndPaging(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 1; i <= 12; i++ {
		fx.CreateEvent(ctx, "Future", testNow.AddDate(0, 0, i))
	}
	fx.CreateEvent(ctx, "Past", testNow.AddDate(0, 0, -1))

	first := serveView(t, h, url.Values{"status": {"Upcoming"}})
	if first.Total != 12 || len(first.Items) != 10 {
		t.Fatalf("page 0: total %d items %d, want 12 and 10", first.Total, len(first.Items))
	}
	for _, ev := range first.Items {
		if ev.Status != "Upcoming" {
			t.Errorf("unexpected status %q", ev.Status)
		}
	}

	second := serveView(t, h, url.Values{"state": {first.State}, "page": {"1"}})
	if len(second.Items) != 2 || second.View.Page != 1 || second.View.Status != "Upcoming" {
		t.Errorf("page 1: items %d view %+v", len(second.Items), second.View)
	}

	resized := serveView(t, h, url.Values{"state": {second.State}, "page_size": {"5"}, "page": {"2"}})
	if resized.View.Page != 0 || resized.View.PageSize != 5 || len(resized.Items) != 5 {
		t.Errorf("resize: items %d view %+v", len(resized.Items), resized.View)
	}

	onDay := serveView(t, h, url.Values{"date": {"2025-06-14"}})
	if onDay.Total != 1 || onDay.Items[0].Name != "Past" {
		t.Errorf("date filter: got %+v", onDay.Items)
	}

	reset := serveView(t, h, url.Values{"state": {onDay.State}, "reset": {"true"}})
	if reset.Total != 13 {
		t.Errorf("reset: total %d, want 13", reset.Total)
	}
}

func TestServeView_TamperedTokenFallsBackToDefault(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateEvent(ctx, "Past", testNow.AddDate(0, 0, -1))
	fx.CreateEvent(ctx, "Future", testNow.AddDate(0, 0, 1))

	filtered := serveView(t, h, url.Values{"status": {"Completed"}})
	if filtered.Total != 1 {
		t.Fatalf("filtered total %d, want 1", filtered.Total)
	}

	got := serveView(t, h, url.Values{"state": {filtered.State + "x"}})
	if got.Total != 2 || got.View != listview.Default() {
		t.Errorf("tampered: total %d view %+v", got.Total, got.View)
	}
}

func TestServeView_BadParams(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, q := range []string{"status=Soon", "date=06/15/2025", "page_size=1000", "page=-1", "page=abc"} {
		rec := httptest.NewRecorder()
		h.ServeView(rec, httptest.NewRequest(http.MethodGet, "/api/events/view?"+q, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", q, rec.Code)
		}
	}
}

func TestCRUD(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/events", map[string]any{
		"event_name": "<b>Welcome</b> Night",
		"event_date": "2025-09-01",
		"venue":      "Hall A",
		"time":       "18:30",
		"year":       []string{"1", "", "2"},
	}))
	testutil.AssertStatus(t, rec, http.StatusCreated)
	var created eventBody
	testutil.DecodeJSON(t, rec, &created)
	if created.Name != "Welcome Night" {
		t.Errorf("name not sanitized: %q", created.Name)
	}
	if len(created.Years) != 2 {
		t.Errorf("years: got %v", created.Years)
	}
	if created.Status != "Upcoming" {
		t.Errorf("status: got %q", created.Status)
	}

	rec = httptest.NewRecorder()
	h.ServeGet(rec, testutil.WithChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", created.ID.Hex()))
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = httptest.NewRecorder()
	req := testutil.NewJSONRequest(t, http.MethodPut, "/", map[string]any{
		"event_name": "Welcome Night",
		"event_date": "2025-06-01",
		"venue":      "Hall B",
	})
	h.HandleUpdate(rec, testutil.WithChiURLParam(req, "id", created.ID.Hex()))
	testutil.AssertStatus(t, rec, http.StatusOK)
	var updated eventBody
	testutil.DecodeJSON(t, rec, &updated)
	if updated.ID != created.ID || updated.Venue != "Hall B" || updated.Status != "Completed" {
		t.Errorf("updated: got %+v", updated)
	}

	rec = httptest.NewRecorder()
	h.HandleDelete(rec, testutil.WithChiURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", created.ID.Hex()))
	testutil.AssertStatus(t, rec, http.StatusOK)

	n, err := fx.DB().Collection("events").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("events left: %d", n)
	}

	rec = httptest.NewRecorder()
	h.HandleDelete(rec, testutil.WithChiURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", created.ID.Hex()))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestHandleCreate_Invalid(t *testing.T) {
	h, _ := newTestHandler(t)

	bodies := []map[string]any{
		{"event_date": "2025-09-01"},
		{"event_name": "X"},
		{"event_name": "X", "event_date": "September 1"},
		{"event_name": "<script></script>", "event_date": "2025-09-01"},
	}
	for _, b := range bodies {
		rec := httptest.NewRecorder()
		h.HandleCreate(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/events", b))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%v: status %d, want 400", b, rec.Code)
		}
	}
}

func TestServeGet_BadAndMissingID(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeGet(rec, testutil.WithChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "nope"))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)

	rec = httptest.NewRecorder()
	h.ServeGet(rec, testutil.WithChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", primitive.NewObjectID().Hex()))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
	testutil.AssertMessage(t, rec, "Event not found")
}

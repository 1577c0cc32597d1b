package page_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/crowdscore/crowdscore/internal/domain/model"
	"github.com/crowdscore/crowdscore/internal/domain/page"
	. "github.com/smartystreets/goconvey/convey"
)

// mockStore holds ratings in memory and serves them in listing order.
type mockStore struct {
	ratings   []model.Rating
	getErr    error
	selectErr error
}

func (m *mockStore) Get(_ context.Context, id string) (model.Rating, bool, error) {
	if m.getErr != nil {
		return model.Rating{}, false, m.getErr
	}
	for _, r := range m.ratings {
		if r.ID == id {
			return r, true, nil
		}
	}
	return model.Rating{}, false, nil
}

func (m *mockStore) Select(_ context.Context, q page.Query) ([]model.Rating, error) {
	if m.selectErr != nil {
		return nil, m.selectErr
	}
	sorted := make([]model.Rating, len(m.ratings))
	copy(sorted, m.ratings)
	sort.Slice(sorted, func(i, j int) bool { return page.Less(sorted[i], sorted[j]) })

	var out []model.Rating
	for _, r := range sorted {
		if q.EventID != "" && r.EventID != q.EventID {
			continue
		}
		if q.After != nil && !page.Less(*q.After, r) {
			continue
		}
		out = append(out, r)
		if len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// seedRatings produces n ratings for eventID with strictly increasing
// timestamps, oldest first.
func seedRatings(eventID string, n int) []model.Rating {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]model.Rating, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Rating{
			ID:        fmt.Sprintf("r-%03d", i),
			EventID:   eventID,
			Score:     float64(i),
			UID:       "u-1",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	return out
}

func TestEngineList(t *testing.T) {
	ctx := context.Background()

	Convey("Given 12 ratings for event E1", t, func() {
		store := &mockStore{ratings: seedRatings("E1", 12)}
		engine := page.New()

		Convey("When listing the first page of 10", func() {
			res, err := engine.List(ctx, store, page.Request{EventID: "E1", PageSize: 10})

			Convey("Then 10 newest ratings come back with a resumption token", func() {
				So(err, ShouldBeNil)
				So(res.Ratings, ShouldHaveLength, 10)
				So(res.Ratings[0].ID, ShouldEqual, "r-011")
				So(res.NextPageToken, ShouldEqual, res.Ratings[9].ID)
				So(res.NextPageToken, ShouldEqual, "r-002")
			})

			Convey("And the second page drains the remainder", func() {
				res2, err := engine.List(ctx, store, page.Request{
					EventID:   "E1",
					PageSize:  10,
					PageToken: res.NextPageToken,
				})
				So(err, ShouldBeNil)
				So(res2.Ratings, ShouldHaveLength, 2)
				So(res2.Ratings[0].ID, ShouldEqual, "r-001")
				So(res2.Ratings[1].ID, ShouldEqual, "r-000")
				So(res2.NextPageToken, ShouldBeEmpty)
			})
		})

		Convey("When paging until the token runs out", func() {
			var seen []string
			token := ""
			for pages := 0; pages < 10; pages++ {
				res, err := engine.List(ctx, store, page.Request{EventID: "E1", PageSize: 5, PageToken: token})
				So(err, ShouldBeNil)
				for _, r := range res.Ratings {
					seen = append(seen, r.ID)
				}
				if res.NextPageToken == "" {
					break
				}
				token = res.NextPageToken
			}

			Convey("Then the union is exhaustive, ordered and duplicate-free", func() {
				So(seen, ShouldHaveLength, 12)
				for i := 1; i < len(seen); i++ {
					So(seen[i], ShouldBeLessThan, seen[i-1])
				}
			})
		})

		Convey("When the page token is stale", func() {
			res, err := engine.List(ctx, store, page.Request{
				EventID:   "E1",
				PageSize:  10,
				PageToken: "deleted-or-bogus",
			})

			Convey("Then listing degrades to the first page instead of failing", func() {
				So(err, ShouldBeNil)
				So(res.Ratings, ShouldHaveLength, 10)
				So(res.Ratings[0].ID, ShouldEqual, "r-011")
			})
		})
	})

	Convey("Given exactly 5 ratings and a page size of 5", t, func() {
		store := &mockStore{ratings: seedRatings("E2", 5)}
		engine := page.New()

		Convey("When listing one page", func() {
			res, err := engine.List(ctx, store, page.Request{EventID: "E2", PageSize: 5})

			Convey("Then all 5 return but the token still signals more", func() {
				// Full-page heuristic: a boundary-sized result set yields a
				// false positive by contract.
				So(err, ShouldBeNil)
				So(res.Ratings, ShouldHaveLength, 5)
				So(res.NextPageToken, ShouldNotBeEmpty)
			})

			Convey("And the follow-up page is empty with no token", func() {
				res2, err := engine.List(ctx, store, page.Request{EventID: "E2", PageSize: 5, PageToken: res.NextPageToken})
				So(err, ShouldBeNil)
				So(res2.Ratings, ShouldBeEmpty)
				So(res2.NextPageToken, ShouldBeEmpty)
			})
		})
	})

	Convey("Given ratings across multiple events", t, func() {
		ratings := append(seedRatings("E1", 3), seedRatings("E2", 2)...)
		// Give the E2 batch distinct ids to avoid collisions with E1.
		ratings[3].ID = "s-000"
		ratings[4].ID = "s-001"
		store := &mockStore{ratings: ratings}
		engine := page.New()

		Convey("When filtering by event", func() {
			res, err := engine.List(ctx, store, page.Request{EventID: "E2", PageSize: 10})
			So(err, ShouldBeNil)
			So(res.Ratings, ShouldHaveLength, 2)
			for _, r := range res.Ratings {
				So(r.EventID, ShouldEqual, "E2")
			}
		})

		Convey("When listing without a filter", func() {
			res, err := engine.List(ctx, store, page.Request{PageSize: 10})
			So(err, ShouldBeNil)
			So(res.Ratings, ShouldHaveLength, 5)
		})
	})

	Convey("Given an engine with custom bounds", t, func() {
		store := &mockStore{ratings: seedRatings("E1", 30)}
		engine := page.New(page.WithDefaultSize(3), page.WithMaxSize(8))

		Convey("When the request has no page size", func() {
			res, err := engine.List(ctx, store, page.Request{})
			So(err, ShouldBeNil)
			So(res.Ratings, ShouldHaveLength, 3)
		})

		Convey("When the request oversizes the page", func() {
			res, err := engine.List(ctx, store, page.Request{PageSize: 500})
			So(err, ShouldBeNil)
			So(res.Ratings, ShouldHaveLength, 8)
		})

		Convey("When the request undersizes the page", func() {
			res, err := engine.List(ctx, store, page.Request{PageSize: -2})
			So(err, ShouldBeNil)
			So(res.Ratings, ShouldHaveLength, 3)
		})
	})

	Convey("Given a failing store", t, func() {
		boom := errors.New("store down")
		engine := page.New()

		Convey("When cursor resolution fails", func() {
			store := &mockStore{ratings: seedRatings("E1", 2), getErr: boom}
			_, err := engine.List(ctx, store, page.Request{PageToken: "r-000"})
			So(errors.Is(err, boom), ShouldBeTrue)
		})

		Convey("When selection fails", func() {
			store := &mockStore{ratings: seedRatings("E1", 2), selectErr: boom}
			_, err := engine.List(ctx, store, page.Request{})
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})
}

func TestLess(t *testing.T) {
	Convey("Given the listing order", t, func() {
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		newer := model.Rating{ID: "a", CreatedAt: now.Add(time.Second)}
		older := model.Rating{ID: "b", CreatedAt: now}

		Convey("Then newer records rank first", func() {
			So(page.Less(newer, older), ShouldBeTrue)
			So(page.Less(older, newer), ShouldBeFalse)
		})

		Convey("Then timestamp ties break by id descending", func() {
			x := model.Rating{ID: "x", CreatedAt: now}
			y := model.Rating{ID: "y", CreatedAt: now}
			So(page.Less(y, x), ShouldBeTrue)
			So(page.Less(x, y), ShouldBeFalse)
		})
	})
}

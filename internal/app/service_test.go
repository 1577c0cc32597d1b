package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/crowdscore/crowdscore/internal/adapters/repository"
	"github.com/crowdscore/crowdscore/internal/adapters/token"
	app "github.com/crowdscore/crowdscore/internal/app"
	"github.com/crowdscore/crowdscore/internal/domain/model"
	"github.com/crowdscore/crowdscore/internal/domain/page"
	"github.com/crowdscore/crowdscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newService(t *testing.T) *app.Service {
	t.Helper()
	tp, err := token.New("test-secret")
	if err != nil {
		t.Fatal(err)
	}
	svc := app.New(
		app.WithStore(repository.NewMemory()),
		app.WithTokenProvider(tp),
		app.WithLogger(logger.Get()),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service without a token provider", t, func() {
		svc := app.New(app.WithStore(repository.NewMemory()))

		Convey("Then Start refuses", func() {
			So(errors.Is(svc.Start(ctx), app.ErrNoTokenProvider), ShouldBeTrue)
		})
	})

	Convey("Given a started service", t, func() {
		svc := newService(t)

		Convey("Then starting again fails", func() {
			So(errors.Is(svc.Start(ctx), app.ErrAlreadyStarted), ShouldBeTrue)
		})

		Convey("Then Stop and restart succeed", func() {
			svc.Stop()
			So(svc.Start(ctx), ShouldBeNil)
		})
	})
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := newService(t)

		Convey("When registering a valid account", func() {
			identity, err := svc.Register(ctx, "alice@example.com", "hunter2")

			Convey("Then the identity comes back", func() {
				So(err, ShouldBeNil)
				So(identity.UID, ShouldNotBeEmpty)
				So(identity.Email, ShouldEqual, "alice@example.com")
			})

			Convey("And login issues a verifiable token", func() {
				signed, err := svc.Login(ctx, "alice@example.com")
				So(err, ShouldBeNil)
				So(signed, ShouldNotBeEmpty)

				got, err := svc.Verify(ctx, signed)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, identity)
			})

			Convey("And a duplicate registration is rejected", func() {
				_, err := svc.Register(ctx, "alice@example.com", "other")
				So(errors.Is(err, repository.ErrDuplicateEmail), ShouldBeTrue)
			})
		})

		Convey("When registering with bad input", func() {
			cases := []struct{ email, password string }{
				{"", "pw"},
				{"not-an-email", "pw"},
				{"bob@example.com", ""},
			}
			for _, c := range cases {
				_, err := svc.Register(ctx, c.email, c.password)
				So(errors.Is(err, app.ErrInvalidInput), ShouldBeTrue)
			}
		})

		Convey("When logging in with an unknown email", func() {
			_, err := svc.Login(ctx, "ghost@example.com")

			Convey("Then the directory miss surfaces", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When logging in with a blank email", func() {
			_, err := svc.Login(ctx, "   ")
			So(errors.Is(err, app.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestSubmitAndList(t *testing.T) {
	ctx := context.Background()
	identity := model.Identity{UID: "uid-1", Email: "alice@example.com"}

	Convey("Given a started service", t, func() {
		svc := newService(t)

		Convey("When submitting a valid rating", func() {
			r, err := svc.SubmitRating(ctx, identity, "E1", 4.5)

			Convey("Then the stored record carries the submitter's uid", func() {
				So(err, ShouldBeNil)
				So(r.ID, ShouldNotBeEmpty)
				So(r.UID, ShouldEqual, identity.UID)
				So(r.CreatedAt.IsZero(), ShouldBeFalse)
			})

			Convey("And listing includes it exactly once", func() {
				res, err := svc.ListRatings(ctx, page.Request{EventID: "E1"})
				So(err, ShouldBeNil)
				So(res.Ratings, ShouldHaveLength, 1)
				So(res.Ratings[0].ID, ShouldEqual, r.ID)
			})
		})

		Convey("When submitting without an event id", func() {
			_, err := svc.SubmitRating(ctx, identity, "   ", 1)

			Convey("Then validation fails and nothing is written", func() {
				So(errors.Is(err, app.ErrInvalidInput), ShouldBeTrue)
				res, err := svc.ListRatings(ctx, page.Request{})
				So(err, ShouldBeNil)
				So(res.Ratings, ShouldBeEmpty)
			})
		})

		Convey("When submitting without an identity", func() {
			_, err := svc.SubmitRating(ctx, model.Identity{}, "E1", 1)
			So(errors.Is(err, app.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When paging through 12 submissions", func() {
			for i := 0; i < 12; i++ {
				_, err := svc.SubmitRating(ctx, identity, "E1", float64(i))
				So(err, ShouldBeNil)
			}

			first, err := svc.ListRatings(ctx, page.Request{EventID: "E1", PageSize: 10})
			So(err, ShouldBeNil)
			So(first.Ratings, ShouldHaveLength, 10)
			So(first.NextPageToken, ShouldEqual, first.Ratings[9].ID)

			rest, err := svc.ListRatings(ctx, page.Request{
				EventID:   "E1",
				PageSize:  10,
				PageToken: first.NextPageToken,
			})
			So(err, ShouldBeNil)
			So(rest.Ratings, ShouldHaveLength, 2)
			So(rest.NextPageToken, ShouldBeEmpty)
		})
	})
}

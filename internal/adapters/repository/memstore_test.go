package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/memtree/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func newStore() *repository.InMemoryStore {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return repository.NewInMemoryStore(
		repository.WithClock(func() time.Time { return fixed }),
		repository.WithIDGenerator(func() string { return "id-1" }),
	)
}

func TestInMemoryStore_Profiles(t *testing.T) {
	Convey("Given an empty profile store", t, func() {
		ctx := context.Background()
		store := newStore()

		Convey("When creating a user", func() {
			p, err := store.Create(ctx, "alice")

			Convey("Then the profile is stored with empty lists", func() {
				So(err, ShouldBeNil)
				So(p.ID, ShouldEqual, "id-1")
				So(p.Name, ShouldEqual, "alice")
				So(p.CreatedAt.Year(), ShouldEqual, 2024)
				So(p.Favourites, ShouldBeEmpty)
				So(store.Count(ctx), ShouldEqual, 1)
			})

			Convey("And creating it again conflicts", func() {
				_, err := store.Create(ctx, "alice")
				So(errors.Is(err, repository.ErrAlreadyExists), ShouldBeTrue)
			})

			Convey("And deleting it removes it", func() {
				So(store.Delete(ctx, "alice"), ShouldBeNil)
				_, err := store.Get(ctx, "alice")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When creating a user with a blank name", func() {
			_, err := store.Create(ctx, "   ")
			So(errors.Is(err, repository.ErrInvalidName), ShouldBeTrue)
		})

		Convey("When deleting an unknown user", func() {
			err := store.Delete(ctx, "ghost")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When listing several users", func() {
			_, _ = store.Create(ctx, "carol")
			_, _ = store.Create(ctx, "alice")
			_, _ = store.Create(ctx, "bob")
			list, err := store.List(ctx)

			Convey("Then they come back ordered by name", func() {
				So(err, ShouldBeNil)
				So(len(list), ShouldEqual, 3)
				So(list[0].Name, ShouldEqual, "alice")
				So(list[2].Name, ShouldEqual, "carol")
			})
		})
	})
}

func TestInMemoryStore_Lists(t *testing.T) {
	Convey("Given a user", t, func() {
		ctx := context.Background()
		store := newStore()
		_, err := store.Create(ctx, "alice")
		So(err, ShouldBeNil)

		Convey("When adding a favourite", func() {
			p, err := store.Add(ctx, "alice", repository.Favourites, "RAM")

			Convey("Then it is listed", func() {
				So(err, ShouldBeNil)
				So(p.Favourites, ShouldResemble, []string{"RAM"})
			})

			Convey("And adding it twice fails", func() {
				_, err := store.Add(ctx, "alice", repository.Favourites, "RAM")
				So(errors.Is(err, repository.ErrAlreadyListed), ShouldBeTrue)
			})

			Convey("And it cannot also be ignored", func() {
				_, err := store.Add(ctx, "alice", repository.Ignored, "RAM")
				So(errors.Is(err, repository.ErrAlreadyListed), ShouldBeTrue)
			})

			Convey("And removing it empties the list", func() {
				p, err := store.Remove(ctx, "alice", repository.Favourites, "RAM")
				So(err, ShouldBeNil)
				So(p.Favourites, ShouldBeEmpty)
			})

			Convey("And mutating the returned copy does not leak", func() {
				p.Favourites[0] = "HDD"
				got, err := store.Get(ctx, "alice")
				So(err, ShouldBeNil)
				So(got.Favourites, ShouldResemble, []string{"RAM"})
			})
		})

		Convey("When ignoring a node", func() {
			p, err := store.Add(ctx, "alice", repository.Ignored, "HDD")
			So(err, ShouldBeNil)
			So(p.Ignored, ShouldResemble, []string{"HDD"})

			Convey("Then removing it from favourites fails", func() {
				_, err := store.Remove(ctx, "alice", repository.Favourites, "HDD")
				So(errors.Is(err, repository.ErrNotListed), ShouldBeTrue)
			})
		})

		Convey("When the user is unknown", func() {
			_, err1 := store.Add(ctx, "bob", repository.Favourites, "RAM")
			_, err2 := store.Remove(ctx, "bob", repository.Ignored, "RAM")
			So(errors.Is(err1, repository.ErrNotFound), ShouldBeTrue)
			So(errors.Is(err2, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestInMemoryStore_Concurrent(t *testing.T) {
	Convey("Given concurrent writers", t, func() {
		ctx := context.Background()
		store := repository.NewInMemoryStore()
		_, err := store.Create(ctx, "alice")
		So(err, ShouldBeNil)

		nodes := []string{"RAM", "Cache", "HDD", "SSD", "SRAM", "DRAM", "GDDR6", "HBM"}
		var wg sync.WaitGroup
		for _, n := range nodes {
			wg.Add(1)
			go func(n string) {
				defer wg.Done()
				_, _ = store.Add(ctx, "alice", repository.Favourites, n)
			}(n)
		}
		wg.Wait()

		p, err := store.Get(ctx, "alice")
		So(err, ShouldBeNil)
		So(len(p.Favourites), ShouldEqual, len(nodes))
	})
}

package services

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"spacedodge/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func TestTopScoresOrdersDescendingAndLimits(t *testing.T) {
	ctx := context.Background()
	svc, _ := newScoreService(t, nil)

	for _, score := range []int{50, 200, 10, 999, 300, 1} {
		if _, err := svc.Submit(ctx, 1, score, "p"); err != nil {
			t.Fatalf("Submit(%d): %v", score, err)
		}
	}

	top, err := svc.TopScores(ctx)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if got, want := scoresOf(top), []int{999, 300, 200, 50, 10}; !slices.Equal(got, want) {
		t.Fatalf("TopScores = %v, want %v", got, want)
	}
}

func TestTopScoresEmptyAndShort(t *testing.T) {
	ctx := context.Background()
	svc, _ := newScoreService(t, nil)

	top, err := svc.TopScores(ctx)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if top == nil || len(top) != 0 {
		t.Fatalf("TopScores on empty store = %#v, want empty slice", top)
	}

	svc.Submit(ctx, 1, 7, "a")
	svc.Submit(ctx, 1, 9, "b")
	top, _ = svc.TopScores(ctx)
	if got := scoresOf(top); !slices.Equal(got, []int{9, 7}) {
		t.Fatalf("TopScores = %v, want [9 7]", got)
	}
}

func TestTopScoresTiesKeepSubmissionOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newScoreService(t, nil)

	for _, name := range []string{"first", "second", "third"} {
		if _, err := svc.Submit(ctx, 1, 100, name); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	svc.Submit(ctx, 1, 150, "best")

	top, _ := svc.TopScores(ctx)
	var names []string
	for _, r := range top {
		names = append(names, r.PlayerName)
	}
	if want := []string{"best", "first", "second", "third"}; !slices.Equal(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
}

func TestSubmitWithoutIdentityStoresNothing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newScoreService(t, nil)
	svc.Submit(ctx, 1, 5, "seed")

	rec, err := svc.Submit(ctx, 0, 42, "Ann")
	if !errors.Is(err, ErrUnauthenticated) || rec != nil {
		t.Fatalf("Submit without identity = %v, %v", rec, err)
	}
	if n, _ := svc.Count(ctx); n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}

func TestSubmitAddsRecord(t *testing.T) {
	ctx := context.Background()
	svc, _ := newScoreService(t, nil)

	rec, err := svc.Submit(ctx, 3, 42, "  Ann ")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if rec.ID == 0 || rec.UserID != 3 || rec.PlayerName != "Ann" || rec.Score != 42 {
		t.Fatalf("record = %+v", rec)
	}
	if n, _ := svc.Count(ctx); n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}

	top, _ := svc.TopScores(ctx)
	if len(top) != 1 || top[0].PlayerName != "Ann" || top[0].Score != 42 {
		t.Fatalf("TopScores = %+v", top)
	}
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newScoreService(t, nil)

	if _, err := svc.Submit(ctx, 1, -1, "Ann"); !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("negative score: %v", err)
	}
	if _, err := svc.Submit(ctx, 1, 1, "   "); !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("blank name: %v", err)
	}
	if n, _ := svc.Count(ctx); n != 0 {
		t.Fatalf("count = %d, want 0", n)
	}
}

func TestSubmitAllowsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newScoreService(t, nil)

	svc.Submit(ctx, 1, 42, "Ann")
	svc.Submit(ctx, 1, 42, "Ann")
	if n, _ := svc.Count(ctx); n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}

func TestTopScoresUsesCacheUntilSubmit(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cache := NewLeaderboardCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	svc, db := newScoreService(t, cache)

	svc.Submit(ctx, 1, 10, "a")
	if _, err := svc.TopScores(ctx); err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if !mr.Exists(leaderboardCacheKey) {
		t.Fatalf("leaderboard not cached after read")
	}

	// A write that bypasses the service is invisible while cached.
	db.Create(&models.Score{UserID: 1, PlayerName: "sneaky", Score: 500})
	top, _ := svc.TopScores(ctx)
	if got := scoresOf(top); !slices.Equal(got, []int{10}) {
		t.Fatalf("cached TopScores = %v, want [10]", got)
	}

	svc.Submit(ctx, 1, 20, "b")
	if mr.Exists(leaderboardCacheKey) {
		t.Fatalf("cache not invalidated by Submit")
	}
	top, _ = svc.TopScores(ctx)
	if got := scoresOf(top); !slices.Equal(got, []int{500, 20, 10}) {
		t.Fatalf("TopScores after submit = %v", got)
	}
}

func TestTopScoresFallsBackWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cache := NewLeaderboardCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	svc, _ := newScoreService(t, cache)
	mr.Close()

	if _, err := svc.Submit(ctx, 1, 10, "a"); err != nil {
		t.Fatalf("Submit with redis down: %v", err)
	}
	top, err := svc.TopScores(ctx)
	if err != nil || len(top) != 1 {
		t.Fatalf("TopScores with redis down = %v, %v", top, err)
	}
}

func TestSubmitForUnknownUserIsUnauthenticated(t *testing.T) {
	ctx := context.Background()
	svc, db := newScoreService(t, nil)

	if _, err := svc.Submit(ctx, 99, 42, "Ann"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Submit for missing user: %v", err)
	}

	db.Delete(&models.User{}, 2)
	if _, err := svc.Submit(ctx, 2, 42, "Ann"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Submit for deleted user: %v", err)
	}
	if n, _ := svc.Count(ctx); n != 0 {
		t.Fatalf("count = %d, want 0", n)
	}
}

func TestTopScoresSkipsCachingBoardOverlappedBySubmit(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cache := NewLeaderboardCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	svc, db := newScoreService(t, cache)

	if _, err := svc.Submit(ctx, 1, 10, "a"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// Land a submit after the leaderboard query ran but before its result
	// is written back to the cache.
	armed := true
	err := db.Callback().Query().After("gorm:query").Register("test:submit_during_read", func(*gorm.DB) {
		if !armed {
			return
		}
		armed = false
		if _, err := svc.Submit(ctx, 2, 42, "Ann"); err != nil {
			t.Errorf("Submit during read: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	first, err := svc.TopScores(ctx)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if got := scoresOf(first); !slices.Equal(got, []int{10}) {
		t.Fatalf("overlapped TopScores = %v, want [10]", got)
	}
	if mr.Exists(leaderboardCacheKey) {
		t.Fatalf("board read before the submit was cached")
	}

	second, err := svc.TopScores(ctx)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if got := scoresOf(second); !slices.Equal(got, []int{42, 10}) {
		t.Fatalf("TopScores after overlapping submit = %v, want [42 10]", got)
	}
	if !mr.Exists(leaderboardCacheKey) {
		t.Fatalf("fresh board not cached")
	}
}

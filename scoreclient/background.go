package scoreclient

import (
	"context"
	"time"

	"spacedodge/game"
)

var _ game.ScoreSubmitter = (*BackgroundSubmitter)(nil)

// SubmitResult is the outcome of one background submission.
type SubmitResult struct {
	Score      int
	PlayerName string
	RecordID   string
	Err        error

	// Board is the leaderboard re-read after a successful submit. It is nil
	// when the submit failed or the re-read did (see BoardErr).
	Board    []Entry
	BoardErr error
}

// BackgroundSubmitter submits scores off the caller's goroutine so a frame
// loop never waits on the network. It satisfies game.ScoreSubmitter.
type BackgroundSubmitter struct {
	client  *Client
	timeout time.Duration
	results chan SubmitResult
}

func NewBackgroundSubmitter(client *Client, timeout time.Duration) *BackgroundSubmitter {
	return &BackgroundSubmitter{
		client:  client,
		timeout: timeout,
		results: make(chan SubmitResult, 8),
	}
}

// Submit starts the submission and returns at once with an empty record id.
// The outcome arrives on Results. Cancelling ctx after Submit returns does
// not abort the request; the submitter's own timeout bounds it.
func (b *BackgroundSubmitter) Submit(ctx context.Context, score int, playerName string) (string, error) {
	ctx = context.WithoutCancel(ctx)
	go b.run(ctx, score, playerName)
	return "", nil
}

// Results delivers one SubmitResult per Submit, in completion order.
func (b *BackgroundSubmitter) Results() <-chan SubmitResult {
	return b.results
}

func (b *BackgroundSubmitter) run(ctx context.Context, score int, playerName string) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	res := SubmitResult{Score: score, PlayerName: playerName}
	res.RecordID, res.Err = b.client.Submit(ctx, score, playerName)
	if res.Err == nil {
		res.Board, res.BoardErr = b.client.TopScores(ctx)
	}
	b.results <- res
}

package elo

import "math"

// KFactor is the maximum number of points exchanged in a single match.
const KFactor = 32

// ExpectedScore returns the probability of the first player winning,
// derived from the rating gap between the two players.
func ExpectedScore(ratingA, ratingB int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(ratingB-ratingA)/400.0))
}

// ComputeUpdatedRatings returns the post-match ratings for both players.
// Each side is rounded to the nearest integer independently, so the rating
// sum is only preserved up to ±1. Ratings are not clamped and may go negative.
func ComputeUpdatedRatings(ratingA, ratingB int, aWon bool) (int, int) {
	expectedA := ExpectedScore(ratingA, ratingB)
	expectedB := ExpectedScore(ratingB, ratingA)

	scoreA, scoreB := 1.0, 0.0
	if !aWon {
		scoreA, scoreB = 0.0, 1.0
	}

	newRatingA := int(math.Round(float64(ratingA) + KFactor*(scoreA-expectedA)))
	newRatingB := int(math.Round(float64(ratingB) + KFactor*(scoreB-expectedB)))

	return newRatingA, newRatingB
}

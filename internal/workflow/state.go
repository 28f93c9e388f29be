// Package workflow implements the query-answering pipeline: routing, intent
// classification, entity extraction and SQL-backed answer generation over a
// per-request state record.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/reeltalk/reeltalk/internal/llm"
)

// Route is the router's verdict on a query.
type Route string

const (
	// RouteProceed continues to intent classification.
	RouteProceed Route = "proceed"
	// RouteClarify ends the run with a clarification question.
	RouteClarify Route = "clarify"
)

// Intent is the closed set of query categories.
type Intent string

const (
	IntentRecommendation   Intent = "recommendation"
	IntentSpecificMovie    Intent = "specific_movie"
	IntentGenreExploration Intent = "genre_exploration"
	IntentComparison       Intent = "comparison"
	IntentTopRated         Intent = "top_rated"
	IntentSimilarMovies    Intent = "similar_movies"
	IntentGeneralQuestion  Intent = "general_question"
)

// allIntents lists every valid category, for output validation.
var allIntents = []Intent{
	IntentRecommendation,
	IntentSpecificMovie,
	IntentGenreExploration,
	IntentComparison,
	IntentTopRated,
	IntentSimilarMovies,
	IntentGeneralQuestion,
}

// ParseIntent normalizes a model-produced category string into an Intent.
// Case and hyphen/underscore differences are tolerated; anything else is an
// error.
func ParseIntent(s string) (Intent, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, intent := range allIntents {
		if normalized == string(intent) {
			return intent, nil
		}
	}
	return "", fmt.Errorf("unknown intent category %q", s)
}

// RouterDecision is the routing stage's structured output.
type RouterDecision struct {
	Route                Route   `json:"route"`
	Confidence           float64 `json:"confidence"`
	Reason               string  `json:"reason"`
	ClarificationMessage string  `json:"clarification_message,omitempty"`
}

// IntentClassification is the intent stage's structured output.
type IntentClassification struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// ExtractedEntities holds the structured fields mentioned by the user.
// Every field is optional: absence means "not mentioned", not zero.
type ExtractedEntities struct {
	MovieTitles      []string `json:"movie_titles"`
	Genres           []string `json:"genres"`
	YearMin          *int     `json:"year_min,omitempty"`
	YearMax          *int     `json:"year_max,omitempty"`
	RatingPreference string   `json:"rating_preference,omitempty"`
	MinRating        *float64 `json:"min_rating,omitempty"`
}

// State is the per-request record threaded through the stages. Stages take
// a State by value and return an updated copy; nothing is shared between
// concurrent runs.
type State struct {
	// Inputs.
	Query   string
	History []llm.Message

	// Stage outputs.
	Decision *RouterDecision
	Intent   *IntentClassification
	Entities *ExtractedEntities

	// Terminal output. Set by exactly one of the clarification, success or
	// error paths.
	FinalResponse string

	// Err records a stage-local failure; once set, later stages are skipped.
	Err string
}

// Failed reports whether a stage recorded an error.
func (s State) Failed() bool {
	return s.Err != ""
}

// StructuredCaller produces a JSON completion decoded into out. Implemented
// by llm.Model; stubbed in tests.
type StructuredCaller interface {
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error
}

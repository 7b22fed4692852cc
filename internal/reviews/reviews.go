package reviews

import (
	"context"
	"errors"
)

// ErrNotFound возвращается, если здание не найдено
var ErrNotFound = errors.New("building not found")

// ErrBadResponse возвращается, если ответ Places API не удалось разобрать
var ErrBadResponse = errors.New("could not decode places response")

// Provider ищет отзывы о здании по названию
type Provider interface {
	Lookup(ctx context.Context, building string) (*BuildingReviews, error)
}

// Review представляет один отзыв
type Review struct {
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Text       string `json:"text"`
}

// BuildingReviews представляет отзывы о здании, разбитые по оценке
type BuildingReviews struct {
	Building string   `json:"building"`
	PlaceID  string   `json:"place_id"`
	Name     string   `json:"name"`
	Rating   float64  `json:"rating"`
	Total    int      `json:"total"`
	Good     []Review `json:"good"`
	Neutral  []Review `json:"neutral"`
	Bad      []Review `json:"bad"`
}

// Categorize раскладывает отзывы: хорошие от 4, нейтральные 3, плохие до 2
func Categorize(result *BuildingReviews, reviews []Review) {
	result.Total = len(reviews)
	result.Good = make([]Review, 0)
	result.Neutral = make([]Review, 0)
	result.Bad = make([]Review, 0)

	for _, r := range reviews {
		if r.AuthorName == "" {
			r.AuthorName = "Anonymous"
		}
		switch {
		case r.Rating >= 4:
			result.Good = append(result.Good, r)
		case r.Rating == 3:
			result.Neutral = append(result.Neutral, r)
		default:
			result.Bad = append(result.Bad, r)
		}
	}
}

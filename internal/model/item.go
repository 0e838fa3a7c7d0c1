package model

import (
	"math"
	"strings"
	"time"
)

// Item is the domain model for a ranked catalog entry.
type Item struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	Tier      Tier      `json:"tier"`
	Rating    *float64  `json:"ratingNumeric"`
	CoverURL  string    `json:"coverUrl"`
	AddedAt   time.Time `json:"addedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasCover reports whether the item references a cover image.
func (it Item) HasCover() bool { return strings.TrimSpace(it.CoverURL) != "" }

// Draft carries the fields of an item that has not been created yet.
type Draft struct {
	Title    string
	Status   string
	Tier     string
	Rating   *float64
	CoverURL string
}

// Patch is a partial update. Nil fields are left untouched.
// There is deliberately no ID field.
type Patch struct {
	Title       *string
	Status      *string
	Tier        *string
	Rating      *float64
	ClearRating bool
	CoverURL    *string
}

// Empty reports whether applying the patch would change nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Status == nil && p.Tier == nil &&
		p.Rating == nil && !p.ClearRating && p.CoverURL == nil
}

// ClampRating bounds v to [0,10] with one decimal. NaN yields nil.
func ClampRating(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	v = math.Max(0, math.Min(10, v))
	v = math.Round(v*10) / 10
	return &v
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
